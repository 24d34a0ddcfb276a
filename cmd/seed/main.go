package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/sngm3741/stagelink/api/internal/config"
	mongodoc "github.com/sngm3741/stagelink/api/internal/infrastructure/mongo"
	"github.com/sngm3741/stagelink/api/internal/logger"
	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

// demoPassword is shared by every seeded account.
const demoPassword = "password123"

type seedOptions struct {
	artists       int
	professionals int
	drop          bool
	randomSeed    int64
	adminEmail    string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var opts seedOptions
	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Populate MongoDB with demo artists, professionals, slots and services",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.artists < 0 || opts.professionals < 1 {
				return fmt.Errorf("need at least one professional and a non-negative artist count")
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
			defer func() { _ = log.Sync() }()
			return run(cmd.Context(), cfg, opts, log)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.artists, "artists", 12, "number of artist accounts")
	flags.IntVar(&opts.professionals, "professionals", 4, "number of professional accounts")
	flags.BoolVar(&opts.drop, "drop", false, "drop existing collections first")
	flags.Int64Var(&opts.randomSeed, "seed", time.Now().UnixNano(), "random seed for reproducible data")
	flags.StringVar(&opts.adminEmail, "admin-email", "admin@stagelink.local", "email of the seeded admin account")
	return cmd
}

func run(parent context.Context, cfg *config.Config, opts seedOptions, log *zap.Logger) error {
	ctx, cancel := context.WithTimeout(parent, 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	db := client.Database(cfg.Mongo.Database)
	colls := mongodoc.Collections{
		Users:               cfg.Mongo.Collections.Users,
		Messages:            cfg.Mongo.Collections.Messages,
		Slots:               cfg.Mongo.Collections.Slots,
		Bookings:            cfg.Mongo.Collections.Bookings,
		Services:            cfg.Mongo.Collections.Services,
		Payments:            cfg.Mongo.Collections.Payments,
		Questionnaires:      cfg.Mongo.Collections.Questionnaires,
		FailedNotifications: cfg.Mongo.Collections.FailedNotifications,
	}

	if opts.drop {
		for _, name := range colls.All() {
			// Drop on a missing collection is not fatal.
			if err := db.Collection(name).Drop(ctx); err != nil {
				log.Warn("drop collection failed", zap.String("collection", name), zap.Error(err))
			}
		}
		log.Info("dropped existing collections")
	}
	if err := mongodoc.EnsureIndexes(ctx, db, colls); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	rules, err := domain.DefaultClassificationRules()
	if err != nil {
		return err
	}
	hash, err := domain.HashPassword(demoPassword)
	if err != nil {
		return err
	}

	s := &seeder{
		rng:      rand.New(rand.NewSource(opts.randomSeed)),
		now:      time.Now().UTC(),
		hash:     hash,
		rules:    rules,
		currency: cfg.Payment.Currency,
		users:    mongodoc.NewUserRepository(db, colls.Users),
		slots:    mongodoc.NewSlotRepository(db, colls.Slots),
		services: mongodoc.NewServiceRepository(db, colls.Services),
	}

	if err := s.createUser(ctx, strings.ToLower(opts.adminEmail), domain.RoleAdmin, "StageLink Admin"); err != nil {
		return fmt.Errorf("admin: %w", err)
	}
	for i := 0; i < opts.artists; i++ {
		if err := s.createArtist(ctx, i); err != nil {
			return fmt.Errorf("artist %d: %w", i, err)
		}
	}
	for i := 0; i < opts.professionals; i++ {
		if err := s.createProfessional(ctx, i); err != nil {
			return fmt.Errorf("professional %d: %w", i, err)
		}
	}

	log.Info("seed complete",
		zap.Int("artists", opts.artists),
		zap.Int("professionals", opts.professionals),
		zap.Int("slots", s.slotCount),
		zap.Int("services", s.serviceCount),
		zap.Int64("seed", opts.randomSeed),
		zap.String("database", cfg.Mongo.Database),
		zap.String("password", demoPassword))
	return nil
}

var (
	stageNames  = []string{"Mira Vale", "Juno Park", "Otis Reed", "Lena Frost", "Kai Moreno", "Ivy Lark", "Theo Quinn", "Sora Blue", "Nina Hale", "Remy Cole"}
	genrePool   = []string{"indie", "pop", "hip-hop", "jazz", "electronic", "r&b", "rock", "folk", "ambient", "soul"}
	cities      = []string{"Tokyo", "Osaka", "Berlin", "London", "Seoul", "Los Angeles", "Melbourne"}
	proNames    = []string{"Harbor Sound", "Northline Management", "Echo Label", "Studio Kite", "Signal PR", "Bright Booking"}
	proTypes    = []string{"producer", "manager", "label", "booking_agent", "engineer", "promoter", "journalist"}
	serviceDefs = []struct {
		title    string
		category string
		price    string
		days     int
	}{
		{"Mix review with written notes", "mixing", "49.00", 3},
		{"Stereo master for one track", "mastering", "79.00", 5},
		{"Release strategy call", "consultation", "120.00", 7},
		{"Playlist pitching campaign", "playlist_pitching", "150.00", 14},
		{"Press release draft", "press_release", "95.00", 7},
		{"Career coaching session", "career_coaching", "60.00", 2},
	}
	slotKinds = []domain.SlotKind{domain.SlotConsultation, domain.SlotListeningSession, domain.SlotMentoring}
)

type seeder struct {
	rng      *rand.Rand
	now      time.Time
	hash     string
	rules    *domain.ClassificationRules
	currency string
	users    *mongodoc.UserRepository
	slots    *mongodoc.SlotRepository
	services *mongodoc.ServiceRepository

	slotCount    int
	serviceCount int
}

func (s *seeder) newUser(email string, role domain.Role, name string) *domain.User {
	created := s.now.Add(-time.Duration(s.rng.Intn(90*24)) * time.Hour)
	return &domain.User{
		Email:        domain.Email(email),
		PasswordHash: s.hash,
		Role:         role,
		DisplayName:  name,
		Plan:         domain.PlanFree,
		Status:       domain.UserActive,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}

func (s *seeder) createUser(ctx context.Context, email string, role domain.Role, name string) error {
	return s.users.Create(ctx, s.newUser(email, role, name))
}

func (s *seeder) createArtist(ctx context.Context, i int) error {
	name := stageNames[i%len(stageNames)]
	if i >= len(stageNames) {
		name = fmt.Sprintf("%s %d", name, i/len(stageNames)+1)
	}
	user := s.newUser(fmt.Sprintf("artist%02d@stagelink.local", i+1), domain.RoleArtist, name)
	user.Bio = "Independent artist working on the next release."
	user.Location = cities[s.rng.Intn(len(cities))]
	user.Genres = s.pick(genrePool, 1+s.rng.Intn(3))
	// Roughly two thirds of artists have completed the questionnaire.
	if s.rng.Intn(3) > 0 {
		score := s.rng.Intn(s.rules.MaxScore() + 1)
		user.Classification = &domain.Classification{
			Tier:      s.rules.TierFor(score),
			Score:     score,
			UpdatedAt: user.CreatedAt.Add(time.Hour),
		}
	}
	if s.rng.Intn(5) == 0 {
		user.Plan = domain.PlanPremium
	}
	return s.users.Create(ctx, user)
}

func (s *seeder) createProfessional(ctx context.Context, i int) error {
	name := proNames[i%len(proNames)]
	if i >= len(proNames) {
		name = fmt.Sprintf("%s %d", name, i/len(proNames)+1)
	}
	user := s.newUser(fmt.Sprintf("pro%02d@stagelink.local", i+1), domain.RoleProfessional, name)
	user.ProfessionalType = domain.ProfessionalType(proTypes[i%len(proTypes)])
	user.Company = name
	user.Location = cities[s.rng.Intn(len(cities))]
	user.Genres = s.pick(genrePool, 2)
	user.Verified = s.rng.Intn(2) == 0
	if err := s.users.Create(ctx, user); err != nil {
		return err
	}

	if err := s.createSlots(ctx, user.ID); err != nil {
		return err
	}
	return s.createServices(ctx, user.ID)
}

// createSlots opens one or two hour-long slots per weekday over the next week.
func (s *seeder) createSlots(ctx context.Context, professionalID string) error {
	day := time.Date(s.now.Year(), s.now.Month(), s.now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	for d := 0; d < 7; d++ {
		date := day.AddDate(0, 0, d)
		if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			continue
		}
		hour := 10 + s.rng.Intn(4)
		for n := 0; n < 1+s.rng.Intn(2); n++ {
			start := date.Add(time.Duration(hour+n*3) * time.Hour)
			slot := &domain.Slot{
				ProfessionalID: professionalID,
				StartsAt:       start,
				EndsAt:         start.Add(time.Hour),
				Capacity:       1 + s.rng.Intn(3),
				Kind:           slotKinds[s.rng.Intn(len(slotKinds))],
				CreatedAt:      s.now,
			}
			if err := slot.Validate(s.now); err != nil {
				return err
			}
			if err := s.slots.Create(ctx, slot); err != nil {
				return err
			}
			s.slotCount++
		}
	}
	return nil
}

func (s *seeder) createServices(ctx context.Context, professionalID string) error {
	for _, idx := range s.rng.Perm(len(serviceDefs))[:2] {
		def := serviceDefs[idx]
		category, err := domain.NewServiceCategory(def.category)
		if err != nil {
			return err
		}
		price, err := domain.NewServicePrice(def.price, s.currency)
		if err != nil {
			return err
		}
		svc := &domain.PremiumService{
			ProfessionalID: professionalID,
			Title:          def.title,
			Description:    "Delivered by the " + def.category + " team.",
			Category:       category,
			Price:          price,
			DeliveryDays:   def.days,
			Active:         true,
			CreatedAt:      s.now,
			UpdatedAt:      s.now,
		}
		if err := s.services.Create(ctx, svc); err != nil {
			return err
		}
		s.serviceCount++
	}
	return nil
}

func (s *seeder) pick(pool []string, n int) []string {
	out := make([]string, 0, n)
	for _, idx := range s.rng.Perm(len(pool))[:n] {
		out = append(out, pool[idx])
	}
	return out
}
