package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/escolacentral/escola-backend/internal/config"
	"github.com/escolacentral/escola-backend/internal/database"
	"github.com/escolacentral/escola-backend/internal/logger"
	"github.com/escolacentral/escola-backend/internal/mailer"
	"github.com/escolacentral/escola-backend/internal/model"
	"github.com/escolacentral/escola-backend/internal/repository"
	"github.com/escolacentral/escola-backend/internal/service"
)

// invite-admin issues a first-access token from the command line, for the
// cases where the HTTP surface cannot be used: seeding the very first super
// admin, or re-inviting someone whose mail never arrived. With -direct the
// account is created immediately with a password typed at the terminal,
// skipping the token handshake entirely.
func main() {
	direct := flag.Bool("direct", false, "create an active account directly instead of issuing a token")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Invite Admin ===")

	fmt.Print("Enter Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if name == "" {
		fmt.Println("Error: Name is required")
		return
	}

	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		fmt.Println("Error: Email is required")
		return
	}

	fmt.Print("Enter Role (super_admin/admin, default admin): ")
	roleStr, _ := reader.ReadString('\n')
	roleStr = strings.TrimSpace(roleStr)
	role := model.RoleAdmin
	if roleStr != "" {
		role = model.Role(roleStr)
	}
	if !role.Valid() {
		fmt.Printf("Error: Unknown role %q\n", roleStr)
		return
	}

	if *direct {
		fmt.Print("Enter Password: ")
		bytePassword, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			fmt.Println("\nError reading password")
			return
		}
		fmt.Println()

		hashed, err := bcrypt.GenerateFromPassword(bytePassword, cfg.BcryptCost)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to hash password")
		}

		admin := &model.Admin{
			Email:        email,
			Name:         name,
			PasswordHash: string(hashed),
			Role:         role,
		}
		adminRepo := repository.NewAdminRepository(pool)
		if err := adminRepo.CreateActive(ctx, admin); err != nil {
			log.Fatal().Err(err).Msg("Failed to create admin")
		}

		fmt.Printf("\nSuccess! Admin '%s' (%s) created with ID: %d\n", admin.Name, admin.Email, admin.ID)
		return
	}

	// Token path: mail still goes through the Redis queue so the running
	// server's dispatch worker delivers it, and the URL is printed for
	// manual delivery as a fallback.
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	tokenRepo := repository.NewTokenRepository(pool)
	eventRepo := repository.NewSecurityEventRepository(pool)
	securityService := service.NewSecurityService(cfg, eventRepo, rdb, log)
	dispatcher := mailer.NewQueueDispatcher(rdb, log)
	provisioning := service.NewProvisioningService(cfg, tokenRepo, dispatcher, securityService, log)

	issued, err := provisioning.Issue(ctx, email, name, role, "cli")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to issue first-access token")
	}

	fmt.Printf("\nSuccess! First-access token issued for %s (%s).\n", name, email)
	fmt.Printf("Expires at: %s\n", issued.Token.ExpiresAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Activation URL:\n  %s\n", issued.ActivationURL)
}
