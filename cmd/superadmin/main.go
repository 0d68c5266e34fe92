// Command superadmin creates a superadmin account from the command
// line.  It is the only way superadmin accounts come into existence;
// the HTTP registration endpoint always produces plain admins.
//
// Usage:
//
//	superadmin <username> <firstName> <lastName> <password>
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/2gazb/BargainDrivingServer/internal/config"
	"github.com/2gazb/BargainDrivingServer/internal/database"
	"github.com/2gazb/BargainDrivingServer/internal/model"
	"github.com/2gazb/BargainDrivingServer/internal/repository"
	"github.com/2gazb/BargainDrivingServer/internal/utils"
)

func main() {
	if len(os.Args) != 5 {
		fmt.Fprintf(os.Stderr, "usage: %s <username> <firstName> <lastName> <password>\n", os.Args[0])
		os.Exit(2)
	}
	username, firstName, lastName, password := os.Args[1], os.Args[2], os.Args[3], os.Args[4]

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctxSchema, cancelSchema := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctxSchema, db); err != nil {
		log.Fatalf("schema: %v", err)
	}
	cancelSchema()

	hash, err := utils.HashPassword(password, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	u, err := repository.NewUserRepo(db).Insert(ctx, model.User{
		Username:  username,
		FirstName: &firstName,
		LastName:  &lastName,
		Password:  hash,
		Role:      model.RoleSuperadmin,
	})
	if err != nil {
		if err == repository.ErrUsernameExists {
			log.Fatalf("username %q is already registered", username)
		}
		log.Fatalf("create superadmin: %v", err)
	}

	fmt.Printf("created superadmin %q (id=%d)\n", u.Username, u.ID)
}
