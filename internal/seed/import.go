package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/jobtrackr/internal/db"
	"github.com/jonathan/jobtrackr/internal/schemas"
	"github.com/jonathan/jobtrackr/internal/types"
)

// importDocument is the on-disk shape of an imported application. It carries
// the document sections but none of the server-assigned fields.
type importDocument struct {
	Company      types.CompanyInfo     `json:"company"`
	Job          types.JobInfo         `json:"job"`
	Application  types.ApplicationInfo `json:"application"`
	Requirements types.Requirements    `json:"requirements"`
	Timeline     []types.TimelineEvent `json:"timeline"`
	Notes        string                `json:"notes"`
	IsFavorite   bool                  `json:"is_favorite"`
}

// ImportFile loads application documents from a JSON file and inserts them
// for ownerID. The file holds a JSON array; every element is validated
// against the application schema before anything is written, so a bad
// document rejects the whole file.
func ImportFile(ctx context.Context, database *db.DB, ownerID uuid.UUID, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read import file: %w", err)
	}

	var rawDocs []json.RawMessage
	if err := json.Unmarshal(data, &rawDocs); err != nil {
		return 0, fmt.Errorf("import file must contain a JSON array: %w", err)
	}

	docs := make([]importDocument, 0, len(rawDocs))
	for i, raw := range rawDocs {
		if err := schemas.ValidateApplicationDocument(raw); err != nil {
			return 0, fmt.Errorf("document %d: %w", i+1, err)
		}
		var doc importDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return 0, fmt.Errorf("document %d: %w", i+1, err)
		}
		docs = append(docs, doc)
	}

	now := time.Now().UTC()
	for i := range docs {
		doc := &docs[i]
		app := &types.Application{
			ID:           uuid.New(),
			OwnerID:      ownerID,
			Company:      doc.Company,
			Job:          doc.Job,
			Application:  doc.Application,
			Requirements: doc.Requirements,
			Timeline:     doc.Timeline,
			Notes:        doc.Notes,
			IsFavorite:   doc.IsFavorite,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		app.ApplyDefaults(now)

		if err := database.CreateApplication(ctx, app); err != nil {
			return i, fmt.Errorf("failed to insert document %d: %w", i+1, err)
		}
	}

	log.Printf("Imported %d applications from %s", len(docs), path)
	return len(docs), nil
}
