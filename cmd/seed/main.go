// Command seed fills a development database with the demo accounts and a
// batch of random tasks. It goes through the service layer, so passwords are
// hashed and tasks validated exactly as they are for API requests.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/phrazzld/taskr-api/internal/config"
	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/platform/logger"
	"github.com/phrazzld/taskr-api/internal/platform/postgres"
	"github.com/phrazzld/taskr-api/internal/service"
	"github.com/phrazzld/taskr-api/internal/service/auth"
	"github.com/phrazzld/taskr-api/internal/store"
)

type seedFlags struct {
	configPath string
	envFile    string
	tasks      int
	seed       uint64
	start      string
	migrate    bool
}

func main() {
	var f seedFlags
	flag.StringVar(&f.configPath, "config", "", "path to a config file")
	flag.StringVar(&f.envFile, "env", config.DefaultEnvFile, "dotenv file exported before loading configuration")
	flag.IntVar(&f.tasks, "tasks", 100, "number of random tasks to create")
	flag.Uint64Var(&f.seed, "seed", uint64(time.Now().UnixNano()), "random seed")
	flag.StringVar(&f.start, "start", "2025-03-20", "first due date (YYYY-MM-DD)")
	flag.BoolVar(&f.migrate, "migrate", true, "apply migrations before seeding")
	flag.Parse()

	if err := run(f); err != nil {
		slog.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(f seedFlags) error {
	start, err := domain.ParseDate(f.start)
	if err != nil {
		return err
	}

	if err := config.LoadEnvFile(f.envFile); err != nil {
		return err
	}

	var cfg *config.Config
	if f.configPath != "" {
		cfg, err = config.LoadFile(f.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if f.migrate {
		if err := postgres.Migrate(ctx, db, postgres.MigrateUp, log); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	hasher := auth.NewBcryptHasher(cfg.Auth.BCryptCost)
	userStore := postgres.NewPostgresUserStore(db, hasher, log)
	users, err := service.NewUserService(userStore, hasher, db, log)
	if err != nil {
		return err
	}
	tasks, err := service.NewTaskService(postgres.NewPostgresTaskStore(db, log), db, log)
	if err != nil {
		return err
	}

	userIDs, err := seedUsers(ctx, users, userStore, log)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewPCG(f.seed, f.seed))
	created := 0
	for _, params := range generateTasks(rng, f.tasks, start, userIDs) {
		if _, err := tasks.CreateTask(ctx, params); err != nil {
			return fmt.Errorf("failed to create task %q: %w", params.Title, err)
		}
		created++
	}

	log.Info("seeding complete",
		slog.Int("users", len(userIDs)),
		slog.Int("tasks", created),
		slog.Uint64("seed", f.seed))
	return nil
}

// demoUser is an account created by the seeder.
type demoUser struct {
	Username string
	Password string
}

var demoUsers = []demoUser{
	{"sean", "password0"},
	{"jadon", "password1"},
	{"craig", "password2"},
	{"jen", "password3"},
	{"bri", "password4"},
	{"stacy", "password5"},
	{"becky", "password6"},
	{"kiesha", "password7"},
	{"ashley", "password8"},
	{"dani", "password9"},
}

// seedUsers creates the demo accounts and returns their IDs. Accounts that
// already exist are reused.
func seedUsers(
	ctx context.Context,
	users service.UserService,
	lookup store.UserStore,
	log *slog.Logger,
) ([]int64, error) {
	ids := make([]int64, 0, len(demoUsers))
	for _, u := range demoUsers {
		created, err := users.Signup(ctx, u.Username, u.Password)
		switch {
		case err == nil:
			log.Info("created user", slog.String("username", u.Username), slog.Int64("id", created.ID))
			ids = append(ids, created.ID)
		case errors.Is(err, store.ErrUsernameExists):
			existing, err := lookup.GetByUsername(ctx, u.Username)
			if err != nil {
				return nil, fmt.Errorf("failed to look up existing user %q: %w", u.Username, err)
			}
			log.Info("user already exists", slog.String("username", u.Username), slog.Int64("id", existing.ID))
			ids = append(ids, existing.ID)
		default:
			return nil, fmt.Errorf("failed to create user %q: %w", u.Username, err)
		}
	}
	return ids, nil
}

var taskTitles = []string{
	"Fix login issue",
	"Update user profile",
	"Review code changes",
	"Test new feature",
	"Write documentation",
	"Optimize database",
	"Design UI mockup",
	"Deploy to production",
	"Resolve bug",
	"Plan sprint",
}

var taskDescriptions = []string{
	"Critical issue affecting users",
	"Minor update requested by team",
	"Routine task for next release",
	"High-priority feature for client",
	"Documentation for new module",
	"Performance improvement needed",
	"UI enhancement for better UX",
	"Deployment preparation",
	"Bug reported by QA",
	"Planning for upcoming sprint",
}

// generateTasks builds n random tasks. About a fifth are due on start, the
// rest 1 to 30 days later. Each task goes to one of userIDs or to nobody.
func generateTasks(rng *rand.Rand, n int, start domain.Date, userIDs []int64) []domain.NewTaskParams {
	out := make([]domain.NewTaskParams, 0, n)
	for i := 0; i < n; i++ {
		var assignee *int64
		if pick := rng.IntN(len(userIDs) + 1); pick < len(userIDs) {
			id := userIDs[pick]
			assignee = &id
		}

		due := start
		if rng.Float64() >= 0.2 {
			due = domain.DateOf(start.Time().AddDate(0, 0, 1+rng.IntN(30)))
		}

		out = append(out, domain.NewTaskParams{
			Title:       fmt.Sprintf("%s #%d", taskTitles[rng.IntN(len(taskTitles))], i+1),
			Description: taskDescriptions[rng.IntN(len(taskDescriptions))],
			Assignee:    assignee,
			Status:      domain.Status(rng.IntN(3)),
			Severity:    domain.Severity(rng.IntN(3)),
			Priority:    domain.Priority(rng.IntN(3)),
			DueDate:     &due,
		})
	}
	return out
}
