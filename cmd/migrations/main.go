package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/vncsmyrnk/ballotbinder/internal/config"
)

func main() {
	var (
		action string
		steps  int
		path   string
	)

	flag.StringVar(&action, "action", "up", "migration action: up, down, force, version")
	flag.IntVar(&steps, "steps", 0, "number of steps for up/down, version for force")
	flag.StringVar(&path, "path", "internal/adapters/repository/postgres/migrations", "migrations directory")
	flag.Parse()

	cfg, err := config.LoadStorage()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Driver != config.DriverPostgres {
		log.Fatalf("migrations only apply to the postgres driver, got %q", cfg.Driver)
	}

	m, err := migrate.New("file://"+path, cfg.ResolveDSN())
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	switch action {
	case "up":
		if steps > 0 {
			err = m.Steps(steps)
		} else {
			err = m.Up()
		}
	case "down":
		if steps > 0 {
			err = m.Steps(-steps)
		} else {
			err = m.Down()
		}
	case "force":
		err = m.Force(steps)
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("version: %d, dirty: %v\n", version, dirty)
		return
	default:
		log.Fatalf("unknown action: %s", action)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatal(err)
	}

	fmt.Println("migrations applied successfully")
}
