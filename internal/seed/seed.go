// Package seed populates a database with realistic sample data for local
// development and demos.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jonathan/jobtrackr/internal/db"
	"github.com/jonathan/jobtrackr/internal/types"
)

// DemoEmail is the account sample data is attached to.
const DemoEmail = "demo@example.com"

// DemoPassword is the password of the demo account.
const DemoPassword = "DemoPass123!"

var companies = []types.CompanyInfo{
	{Name: "Google", Website: "https://google.com", Industry: "Technology", Size: "10000+", Location: "Mountain View, CA"},
	{Name: "Microsoft", Website: "https://microsoft.com", Industry: "Technology", Size: "10000+", Location: "Redmond, WA"},
	{Name: "Amazon", Website: "https://amazon.com", Industry: "E-commerce", Size: "10000+", Location: "Seattle, WA"},
	{Name: "Meta", Website: "https://meta.com", Industry: "Technology", Size: "10000+", Location: "Menlo Park, CA"},
	{Name: "Apple", Website: "https://apple.com", Industry: "Technology", Size: "10000+", Location: "Cupertino, CA"},
	{Name: "Netflix", Website: "https://netflix.com", Industry: "Entertainment", Size: "5000-10000", Location: "Los Gatos, CA"},
	{Name: "Tesla", Website: "https://tesla.com", Industry: "Automotive", Size: "10000+", Location: "Palo Alto, CA"},
	{Name: "Airbnb", Website: "https://airbnb.com", Industry: "Travel", Size: "5000-10000", Location: "San Francisco, CA"},
	{Name: "Uber", Website: "https://uber.com", Industry: "Transportation", Size: "10000+", Location: "San Francisco, CA"},
	{Name: "Spotify", Website: "https://spotify.com", Industry: "Music", Size: "5000-10000", Location: "Stockholm, Sweden"},
	{Name: "LinkedIn", Website: "https://linkedin.com", Industry: "Technology", Size: "10000+", Location: "Sunnyvale, CA"},
	{Name: "Salesforce", Website: "https://salesforce.com", Industry: "Software", Size: "10000+", Location: "San Francisco, CA"},
	{Name: "Adobe", Website: "https://adobe.com", Industry: "Software", Size: "10000+", Location: "San Jose, CA"},
	{Name: "Stripe", Website: "https://stripe.com", Industry: "Fintech", Size: "1000-5000", Location: "San Francisco, CA"},
	{Name: "Shopify", Website: "https://shopify.com", Industry: "E-commerce", Size: "5000-10000", Location: "Ottawa, Canada"},
}

var jobTitles = []string{
	"Backend Developer", "Frontend Developer", "Full Stack Developer",
	"Software Engineer", "Senior Software Engineer", "DevOps Engineer",
	"Data Engineer", "Machine Learning Engineer", "Python Developer",
	"React Developer", "Cloud Engineer", "Solutions Architect",
	"Technical Lead", "Engineering Manager",
}

var skills = []string{
	"Python", "Django", "Flask", "FastAPI",
	"JavaScript", "React", "Vue.js", "Angular",
	"Node.js", "Express.js", "MongoDB", "PostgreSQL",
	"MySQL", "Redis", "Docker", "Kubernetes",
	"AWS", "Azure", "GCP", "Git",
	"CI/CD", "REST API", "GraphQL", "Microservices",
	"Agile", "Scrum", "TDD", "Machine Learning",
}

var (
	employmentTypes  = []string{"full-time", "part-time", "contract", "internship"}
	workModes        = []string{"remote", "hybrid", "onsite"}
	experienceLevels = []string{"entry", "mid", "senior", "lead"}
	sources          = []string{"LinkedIn", "Indeed", "Company Website", "Referral", "Recruiter", "AngelList", "Glassdoor"}
	recruiters       = []string{"Sarah Johnson", "Mike Chen", "Emily Davis", "John Smith"}
	interviewers     = []string{"Alex Kumar", "Rachel Lee", "David Brown", "Lisa Wang"}
	managers         = []string{"Robert Taylor", "Jennifer Martinez", "James Wilson", "Maria Garcia"}
	sampleNotes      = []string{
		"Really excited about this role!",
		"Good company culture from what I heard",
		"Matches my career goals",
		"Referral from a friend",
		"Challenging position with growth opportunities",
		"",
	}
)

// Generator produces sample applications from a seeded random source, so runs
// are reproducible when the caller fixes the seed.
type Generator struct {
	rng *rand.Rand
	now time.Time
}

// NewGenerator creates a Generator with the given random seed.
func NewGenerator(randomSeed int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(randomSeed)),
		now: time.Now().UTC(),
	}
}

// NewGeneratorAt creates a Generator with an explicit "now", used by tests.
func NewGeneratorAt(randomSeed int64, now time.Time) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(randomSeed)),
		now: now,
	}
}

func (g *Generator) pick(options []string) string {
	return options[g.rng.Intn(len(options))]
}

func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

func (g *Generator) sample(options []string, n int) []string {
	idx := g.rng.Perm(len(options))
	picked := make([]string, 0, n)
	for _, i := range idx[:n] {
		picked = append(picked, options[i])
	}
	return picked
}

// statusFor weights the status by application age: newer applications are
// more likely to still be in progress.
func (g *Generator) statusFor(daysAgo int) string {
	switch {
	case daysAgo < 7:
		return g.pick([]string{types.StatusApplied, types.StatusScreening, types.StatusInterview})
	case daysAgo < 30:
		return g.pick([]string{
			types.StatusApplied, types.StatusScreening, types.StatusInterview,
			types.StatusTechnicalTest, types.StatusRejected, types.StatusWithdrawn,
		})
	default:
		return g.pick([]string{
			types.StatusRejected, types.StatusWithdrawn, types.StatusOffer, types.StatusAccepted,
		})
	}
}

// salaryFor returns a salary range appropriate for the experience level.
func (g *Generator) salaryFor(level string) (int, int) {
	var lo int
	var spread int
	switch level {
	case "entry":
		lo, spread = g.between(60000, 80000), g.between(15000, 25000)
	case "mid":
		lo, spread = g.between(80000, 120000), g.between(20000, 40000)
	case "senior":
		lo, spread = g.between(120000, 160000), g.between(30000, 60000)
	default: // lead
		lo, spread = g.between(150000, 200000), g.between(40000, 80000)
	}
	return lo, lo + spread
}

// timeline builds a plausible event sequence for the given status, starting
// at the applied date.
func (g *Generator) timeline(appliedDate time.Time, status string) []types.TimelineEvent {
	events := []types.TimelineEvent{{
		Date:      appliedDate,
		EventType: "applied",
		Title:     "Application submitted",
		Notes:     "Applied through job portal",
	}}
	current := appliedDate

	progressed := status != types.StatusApplied && status != types.StatusWithdrawn
	if progressed {
		current = current.AddDate(0, 0, g.between(1, 7))
		events = append(events, types.TimelineEvent{
			Date:            current,
			EventType:       "phone_screen",
			Title:           "Phone screening with recruiter",
			Notes:           "Discussed role, experience, and compensation",
			InterviewerName: g.pick(recruiters),
		})
	}

	pastScreening := progressed && status != types.StatusScreening
	if pastScreening {
		current = current.AddDate(0, 0, g.between(3, 5))
		events = append(events, types.TimelineEvent{
			Date:            current,
			EventType:       "technical_interview",
			Title:           "Technical interview",
			Notes:           "Coding problems and system design discussion",
			InterviewerName: g.pick(interviewers),
			InterviewType:   "video",
		})
	}

	if status == types.StatusOffer || status == types.StatusAccepted {
		current = current.AddDate(0, 0, g.between(5, 7))
		events = append(events, types.TimelineEvent{
			Date:            current,
			EventType:       "final_round",
			Title:           "Final round with hiring manager",
			Notes:           "Team fit and culture discussion",
			InterviewerName: g.pick(managers),
		})
		current = current.AddDate(0, 0, g.between(2, 4))
		events = append(events, types.TimelineEvent{
			Date:      current,
			EventType: "offer_received",
			Title:     "Offer received",
			Notes:     "Competitive offer with good benefits package",
		})
	}

	if status == types.StatusRejected {
		current = current.AddDate(0, 0, g.between(1, 3))
		events = append(events, types.TimelineEvent{
			Date:      current,
			EventType: "rejection",
			Title:     "Application rejected",
			Notes:     "Moving forward with other candidates",
		})
	}

	return events
}

// Application generates one sample application owned by ownerID, applied
// daysAgo days in the past.
func (g *Generator) Application(ownerID uuid.UUID, daysAgo int) *types.Application {
	company := companies[g.rng.Intn(len(companies))]
	title := g.pick(jobTitles)
	appliedDate := g.now.AddDate(0, 0, -daysAgo)
	status := g.statusFor(daysAgo)
	level := g.pick(experienceLevels)
	salaryMin, salaryMax := g.salaryFor(level)

	slug := strings.ReplaceAll(strings.ToLower(title), " ", "-")

	app := &types.Application{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Company: company,
		Job: types.JobInfo{
			Title:           title,
			Description:     fmt.Sprintf("Looking for a %s to join our team.", title),
			JobURL:          fmt.Sprintf("%s/careers/%s", company.Website, slug),
			EmploymentType:  g.pick(employmentTypes),
			WorkMode:        g.pick(workModes),
			ExperienceLevel: level,
			SalaryMin:       &salaryMin,
			SalaryMax:       &salaryMax,
			Currency:        "USD",
		},
		Application: types.ApplicationInfo{
			AppliedDate:   &appliedDate,
			Source:        g.pick(sources),
			Status:        status,
			ResumeVersion: fmt.Sprintf("Resume_v%d.pdf", g.between(1, 5)),
			CoverLetter:   "Customized cover letter for this position",
		},
		Requirements: types.Requirements{
			SkillsRequired:  g.sample(skills, g.between(5, 10)),
			SkillsPreferred: g.sample(skills, g.between(2, 5)),
			Education:       g.pick([]string{"Bachelor's", "Master's", "Bachelor's or equivalent experience"}),
		},
		Timeline:   g.timeline(appliedDate, status),
		Notes:      g.pick(sampleNotes),
		IsFavorite: g.rng.Intn(4) == 0,
		CreatedAt:  appliedDate,
		UpdatedAt:  g.now,
	}
	years := []float64{1, 1.5, 2, 3, 4, 5}
	ye := years[g.rng.Intn(len(years))]
	app.Requirements.YearsExperience = &ye

	return app
}

// Run seeds the database with the demo user and count sample applications
// spread over the last 90 days.
func Run(ctx context.Context, database *db.DB, count int, randomSeed int64) error {
	user, err := database.GetUserByEmail(ctx, DemoEmail)
	if err != nil {
		return fmt.Errorf("failed to look up demo user: %w", err)
	}

	var ownerID uuid.UUID
	if user != nil {
		ownerID = user.ID
		log.Printf("Using existing user: %s", DemoEmail)
	} else {
		hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash demo password: %w", err)
		}
		ownerID, err = database.CreateUser(ctx, "Demo User", DemoEmail, string(hash))
		if err != nil {
			return fmt.Errorf("failed to create demo user: %w", err)
		}
		log.Printf("Created new user: %s", DemoEmail)
	}

	g := NewGenerator(randomSeed)
	for i := 0; i < count; i++ {
		app := g.Application(ownerID, g.between(1, 90))
		if err := database.CreateApplication(ctx, app); err != nil {
			return fmt.Errorf("failed to insert application %d: %w", i+1, err)
		}
	}

	log.Printf("Seeded %d applications for %s", count, DemoEmail)
	return nil
}
