package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	sqliteadapter "github.com/QuickEst-app/QuickEst/internal/adapters/db/sqlite"
	httpadapter "github.com/QuickEst-app/QuickEst/internal/adapters/http"
	"github.com/QuickEst-app/QuickEst/internal/adapters/report"
	"github.com/QuickEst-app/QuickEst/internal/application"
	"github.com/QuickEst-app/QuickEst/internal/domain"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	root := &cli.Command{
		Name:  "quickest",
		Usage: "Use case point estimation server and CLI",
		Commands: []*cli.Command{
			serverCommand(),
			projectCommand(),
			actorCommand(),
			useCaseCommand(),
			factorCommand(),
			paramsCommand(),
			estimateCommand(),
			exportCommand(),
			importCommand(),
			reportCommand(),
		},
	}

	if err := root.Run(context.Background(), args); err != nil {
		log.Fatal(err)
	}
}

func defaultDBPath() string {
	if path := os.Getenv("QUICKEST_DB"); path != "" {
		return path
	}
	return "quickest.db"
}

func dbFlag() *cli.StringFlag {
	return &cli.StringFlag{Name: "db", Value: defaultDBPath(), Usage: "SQLite database path"}
}

func openService(ctx context.Context, dbPath string) (*application.ProjectService, error) {
	db, err := sqliteadapter.Open(dbPath)
	if err != nil {
		return nil, err
	}
	if err := sqliteadapter.RunMigrations(ctx, db); err != nil {
		return nil, err
	}
	return application.NewProjectService(sqliteadapter.NewProjectRepository(db)), nil
}

func statusErr(status domain.Status) error {
	if status == domain.Success {
		return nil
	}
	return errors.New(status.String())
}

func firstErr(status domain.Status, err error) error {
	if err != nil {
		return err
	}
	return statusErr(status)
}

func serverCommand() *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "Run HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Value: ":8080", Usage: "HTTP listen address"},
			dbFlag(),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runServer(ctx, c.String("addr"), c.String("db"))
		},
	}
}

func runServer(ctx context.Context, addr, dbPath string) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	service, err := openService(ctx, dbPath)
	if err != nil {
		return err
	}
	service.UseLogger(logger)

	router := httpadapter.NewRouter(service)
	srv := &http.Server{Addr: addr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("db", dbPath))
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func projectCommand() *cli.Command {
	return &cli.Command{
		Name:  "project",
		Usage: "Project commands",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create project",
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "description"},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					svc, err := openService(ctx, c.String("db"))
					if err != nil {
						return err
					}
					project, status, err := svc.CreateProject(ctx, c.String("name"), c.String("description"))
					if err := firstErr(status, err); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(project)
					}
					printProjects([]domain.Project{project})
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "List projects",
				Flags: []cli.Flag{dbFlag(), &cli.BoolFlag{Name: "json", Usage: "output raw JSON"}},
				Action: func(ctx context.Context, c *cli.Command) error {
					svc, err := openService(ctx, c.String("db"))
					if err != nil {
						return err
					}
					projects, status := svc.ListProjects(ctx)
					if err := statusErr(status); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(projects)
					}
					printProjects(projects)
					return nil
				},
			},
			{
				Name:  "update",
				Usage: "Rename a project",
				Flags: []cli.Flag{
					dbFlag(),
					&cli.UintFlag{Name: "id", Required: true},
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "description"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					svc, err := openService(ctx, c.String("db"))
					if err != nil {
						return err
					}
					status, err := svc.UpdateProject(ctx, c.Uint("id"), c.String("name"), c.String("description"))
					return firstErr(status, err)
				},
			},
			{
				Name:  "favorite",
				Usage: "Mark or unmark a project as favorite",
				Flags: []cli.Flag{
					dbFlag(),
					&cli.UintFlag{Name: "id", Required: true},
					&cli.BoolFlag{Name: "off", Usage: "clear the favorite mark"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					svc, err := openService(ctx, c.String("db"))
					if err != nil {
						return err
					}
					return statusErr(svc.SetFavorite(ctx, c.Uint("id"), !c.Bool("off")))
				},
			},
			{
				Name:  "delete",
				Usage: "Delete projects by id",
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{Name: "ids", Required: true, Usage: "csv project ids"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					ids, err := parseUintList(c.String("ids"))
					if err != nil {
						return err
					}
					svc, err := openService(ctx, c.String("db"))
					if err != nil {
						return err
					}
					missing, status := svc.DeleteProjects(ctx, ids)
					for _, id := range missing {
						fmt.Printf("project %d not found\n", id)
					}
					return statusErr(status)
				},
			},
			{
				Name:  "open",
				Usage: "Open a project and show its full state",
				Flags: []cli.Flag{
					dbFlag(),
					&cli.UintFlag{Name: "id", Required: true},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					svc, err := openService(ctx, c.String("db"))
					if err != nil {
						return err
					}
					data, status := svc.OpenProject(ctx, c.Uint("id"))
					if err := statusErr(status); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(data)
					}
					printProjectData(data)
					return nil
				},
			},
		},
	}
}

func actorCommand() *cli.Command {
	return &cli.Command{
		Name:  "actor",
		Usage: "Actor commands",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add actor to a project",
				Flags: []cli.Flag{
					dbFlag(),
					&cli.UintFlag{Name: "project", Required: true},
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "complexity", Value: "Average"},
					&cli.StringFlag{Name: "comment"},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					svc, err := openService(ctx, c.String("db"))
					if err != nil {
						return err
					}
					actor, status, err := svc.AddActor(ctx, c.Uint("project"), c.String("name"), domain.Complexity(c.String("complexity")), c.String("comment"))
					if err := firstErr(status, err); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(actor)
					}
					printActors([]domain.Actor{actor})
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "List actors",
				Flags: []cli.Flag{
					dbFlag(),
					&cli.UintFlag{Name: "project", Required: true},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					svc, err := openService(ctx, c.String("db"))
					if err != nil {
						return err
					}
					actors, status := svc.ListActors(ctx, c.Uint("project"))
					if err := statusErr(status); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(actors)
					}
					printActors(actors)
					return nil
				},
			},
			{
				Name:  "update",
				Usage: "Update actor by code",
				Flags: []cli.Flag{
					dbFlag(),
					&cli.UintFlag{Name: "project", Required: true},
					&cli.StringFlag{Name: "code", Required: true},
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "complexity", Value: "Average"},
					&cli.StringFlag{Name: "comment"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					svc, err := openService(ctx, c.String("db"))
					if err != nil {
						return err
					}
					status, err := svc.UpdateActor(ctx, domain.Actor{
						Code:       c.String("code"),
						Name:       c.String("name"),
						Complexity: domain.Complexity(c.String("complexity")),
						Comment:    c.String("comment"),
						ProjectID:  c.Uint("project"),
					})
					return firstErr(status, err)
				},
			},
			{
				Name:  "delete",
				Usage: "Delete actors by code",
				Flags: []cli.Flag{
					dbFlag(),
					&cli.UintFlag{Name: "project", Required: true},
					&cli.StringFlag{Name: "codes", Required: true, Usage: "csv actor codes"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					svc, err := openService(ctx, c.String("db"))
					if err != nil {
						return err
					}
					missing, status := svc.RemoveActors(ctx, c.Uint("project"), parseCSV(c.String("codes")))
					for _, code := range missing {
						fmt.Printf("%s not found\n", code)
					}
					return statusErr(status)
				},
			},
		},
	}
}

func useCaseCommand() *cli.Command {
	return &cli.Command{
		Name:  "usecase",
		Usage: "Use case commands",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add use case to a project",
				Flags: []cli.Flag{
					dbFlag(),
					&cli.UintFlag{Name: "project", Required: true},
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "complexity", Value: "Average"},
					&cli.IntFlag{Name: "transactions", Value: 4},
					&cli.StringFlag{Name: "comment"},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					svc, err := openService(ctx, c.String("db"))
					if err != nil {
						return err
					}
					useCase, status, err := svc.AddUseCase(ctx, c.Uint("project"), c.String("name"), domain.Complexity(c.String("complexity")), c.Int("transactions"), c.String("comment"))
					if err := firstErr(status, err); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(useCase)
					}
					printUseCases([]domain.UseCase{useCase})
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "List use cases",
				Flags: []cli.Flag{
					dbFlag(),
					&cli.UintFlag{Name: "project", Required: true},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					svc, err := openService(ctx, c.String("db"))
					if err != nil {
						return err
					}
					useCases, status := svc.ListUseCases(ctx, c.Uint("project"))
					if err := statusErr(status); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(useCases)
					}
					printUseCases(useCases)
					return nil
				},
			},
			{
				Name:  "update",
				Usage: "Update use case by code",
				Flags: []cli.Flag{
					dbFlag(),
					&cli.UintFlag{Name: "project", Required: true},
					&cli.StringFlag{Name: "code", Required: true},
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "complexity", Value: "Average"},
					&cli.IntFlag{Name: "transactions", Value: 4},
					&cli.StringFlag{Name: "comment"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					svc, err := openService(ctx, c.String("db"))
					if err != nil {
						return err
					}
					status, err := svc.UpdateUseCase(ctx, domain.UseCase{
						Code:         c.String("code"),
						Name:         c.String("name"),
						Complexity:   domain.Complexity(c.String("complexity")),
						Transactions: c.Int("transactions"),
						Comment:      c.String("comment"),
						ProjectID:    c.Uint("project"),
					})
					return firstErr(status, err)
				},
			},
			{
				Name:  "delete",
				Usage: "Delete use cases by code",
				Flags: []cli.Flag{
					dbFlag(),
					&cli.UintFlag{Name: "project", Required: true},
					&cli.StringFlag{Name: "codes", Required: true, Usage: "csv use case codes"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					svc, err := openService(ctx, c.String("db"))
					if err != nil {
						return err
					}
					missing, status := svc.RemoveUseCases(ctx, c.Uint("project"), parseCSV(c.String("codes")))
					for _, code := range missing {
						fmt.Printf("%s not found\n", code)
					}
					return statusErr(status)
				},
			},
		},
	}
}

func factorCommand() *cli.Command {
	return &cli.Command{
		Name:  "factor",
		Usage: "Technical and environmental factor commands",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List factors of one kind",
				Flags: []cli.Flag{
					dbFlag(),
					&cli.UintFlag{Name: "project", Required: true},
					&cli.StringFlag{Name: "kind", Value: "technical", Usage: "technical or environmental"},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					kind, err := parseFactorKind(c.String("kind"))
					if err != nil {
						return err
					}
					svc, err := openService(ctx, c.String("db"))
					if err != nil {
						return err
					}
					factors, status := svc.ListFactors(ctx, kind, c.Uint("project"))
					if err := statusErr(status); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(factors)
					}
					printFactors(factors)
					return nil
				},
			},
			{
				Name:  "set",
				Usage: "Set factor influence and weight",
				Flags: []cli.Flag{
					dbFlag(),
					&cli.UintFlag{Name: "project", Required: true},
					&cli.StringFlag{Name: "kind", Value: "technical", Usage: "technical or environmental"},
					&cli.StringFlag{Name: "code", Required: true},
					&cli.IntFlag{Name: "influence", Required: true},
					&cli.FloatFlag{Name: "weight", Usage: "new weight, omit to keep the stored one"},
					&cli.StringFlag{Name: "comment"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					kind, err := parseFactorKind(c.String("kind"))
					if err != nil {
						return err
					}
					svc, err := openService(ctx, c.String("db"))
					if err != nil {
						return err
					}
					status, err := svc.SetFactor(ctx, kind, c.Uint("project"), c.String("code"), c.Int("influence"), c.Float("weight"), c.String("comment"))
					return firstErr(status, err)
				},
			},
		},
	}
}

func paramsCommand() *cli.Command {
	return &cli.Command{
		Name:  "params",
		Usage: "Estimation parameter commands",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show project parameters",
				Flags: []cli.Flag{
					dbFlag(),
					&cli.UintFlag{Name: "project", Required: true},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					svc, err := openService(ctx, c.String("db"))
					if err != nil {
						return err
					}
					params, status := svc.GetParameters(ctx, c.Uint("project"))
					if err := statusErr(status); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(params)
					}
					printParameters(params)
					return nil
				},
			},
			{
				Name:  "cf",
				Usage: "Set the conversion factor",
				Flags: []cli.Flag{
					dbFlag(),
					&cli.UintFlag{Name: "project", Required: true},
					&cli.FloatFlag{Name: "value", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					svc, err := openService(ctx, c.String("db"))
					if err != nil {
						return err
					}
					status, err := svc.SetCF(ctx, c.Uint("project"), c.Float("value"))
					return firstErr(status, err)
				},
			},
			{
				Name:  "percentages",
				Usage: "Set phase effort percentages",
				Flags: []cli.Flag{
					dbFlag(),
					&cli.UintFlag{Name: "project", Required: true},
					&cli.FloatFlag{Name: "analysis", Required: true},
					&cli.FloatFlag{Name: "design", Required: true},
					&cli.FloatFlag{Name: "programming", Required: true},
					&cli.FloatFlag{Name: "testing", Required: true},
					&cli.FloatFlag{Name: "overloading", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					svc, err := openService(ctx, c.String("db"))
					if err != nil {
						return err
					}
					status, err := svc.SetPercentages(ctx, c.Uint("project"), domain.Percentages{
						Analysis:    c.Float("analysis"),
						Design:      c.Float("design"),
						Programming: c.Float("programming"),
						Testing:     c.Float("testing"),
						Overloading: c.Float("overloading"),
					})
					return firstErr(status, err)
				},
			},
			weightsCommand("actor-weights", "Set actor complexity weights", func(ctx context.Context, svc *application.ProjectService, projectID uint, w domain.WeightTriple) (domain.Status, error) {
				return svc.SetActorWeights(ctx, projectID, w)
			}),
			weightsCommand("use-case-weights", "Set use case complexity weights", func(ctx context.Context, svc *application.ProjectService, projectID uint, w domain.WeightTriple) (domain.Status, error) {
				return svc.SetUseCaseWeights(ctx, projectID, w)
			}),
		},
	}
}

func weightsCommand(name, usage string, set func(context.Context, *application.ProjectService, uint, domain.WeightTriple) (domain.Status, error)) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: []cli.Flag{
			dbFlag(),
			&cli.UintFlag{Name: "project", Required: true},
			&cli.FloatFlag{Name: "simple", Required: true},
			&cli.FloatFlag{Name: "average", Required: true},
			&cli.FloatFlag{Name: "complex", Required: true},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			svc, err := openService(ctx, c.String("db"))
			if err != nil {
				return err
			}
			status, err := set(ctx, svc, c.Uint("project"), domain.WeightTriple{
				Simple:  c.Float("simple"),
				Average: c.Float("average"),
				Complex: c.Float("complex"),
			})
			return firstErr(status, err)
		},
	}
}

func estimateCommand() *cli.Command {
	return &cli.Command{
		Name:  "estimate",
		Usage: "Compute the effort estimate for a project",
		Flags: []cli.Flag{
			dbFlag(),
			&cli.UintFlag{Name: "project", Required: true},
			&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			svc, err := openService(ctx, c.String("db"))
			if err != nil {
				return err
			}
			overview, status := svc.Estimate(ctx, c.Uint("project"))
			if err := statusErr(status); err != nil {
				return err
			}
			if c.Bool("json") {
				return printJSON(overview)
			}
			printOverview(overview)
			return nil
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export project bundles",
		Commands: []*cli.Command{
			{
				Name:  "bundle",
				Usage: "Export one project as a bundle directory",
				Flags: []cli.Flag{
					dbFlag(),
					&cli.UintFlag{Name: "project", Required: true},
					&cli.StringFlag{Name: "dir", Required: true, Usage: "target directory"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					svc, err := openService(ctx, c.String("db"))
					if err != nil {
						return err
					}
					manifestPath, status, err := svc.ExportProject(ctx, c.Uint("project"), c.String("dir"))
					if err := firstErr(status, err); err != nil {
						return err
					}
					fmt.Println(manifestPath)
					return nil
				},
			},
			{
				Name:  "archive",
				Usage: "Export projects into one zip archive",
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{Name: "ids", Required: true, Usage: "csv project ids"},
					&cli.StringFlag{Name: "out", Required: true, Usage: "zip file path"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					ids, err := parseUintList(c.String("ids"))
					if err != nil {
						return err
					}
					svc, err := openService(ctx, c.String("db"))
					if err != nil {
						return err
					}
					status, err := svc.ExportProjects(ctx, ids, c.String("out"))
					if err := firstErr(status, err); err != nil {
						return err
					}
					fmt.Println(c.String("out"))
					return nil
				},
			},
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import a project bundle",
		Flags: []cli.Flag{
			dbFlag(),
			&cli.StringFlag{Name: "path", Required: true, Usage: "bundle manifest or directory"},
			&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			svc, err := openService(ctx, c.String("db"))
			if err != nil {
				return err
			}
			project, status, err := svc.ImportProject(ctx, c.String("path"))
			if err := firstErr(status, err); err != nil {
				return err
			}
			if c.Bool("json") {
				return printJSON(project)
			}
			printProjects([]domain.Project{project})
			return nil
		},
	}
}

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Write an xlsx estimation report",
		Flags: []cli.Flag{
			dbFlag(),
			&cli.UintFlag{Name: "project", Required: true},
			&cli.StringFlag{Name: "out", Required: true, Usage: "xlsx file path"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			svc, err := openService(ctx, c.String("db"))
			if err != nil {
				return err
			}
			data, status := svc.OpenProject(ctx, c.Uint("project"))
			if err := statusErr(status); err != nil {
				return err
			}
			overview, status := svc.Estimate(ctx, c.Uint("project"))
			if err := statusErr(status); err != nil {
				return err
			}
			if err := report.WriteWorkbook(c.String("out"), data, overview); err != nil {
				return err
			}
			fmt.Println(c.String("out"))
			return nil
		},
	}
}

func parseFactorKind(raw string) (domain.FactorKind, error) {
	switch raw {
	case "technical":
		return domain.Technical, nil
	case "environmental":
		return domain.Environmental, nil
	default:
		return "", fmt.Errorf("factor kind must be technical or environmental, got %q", raw)
	}
}

func parseCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseUintList(raw string) ([]uint, error) {
	parts := parseCSV(raw)
	out := make([]uint, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", p)
		}
		out = append(out, uint(n))
	}
	return out, nil
}

func jsonMarshal(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
