// Command useradd creates an account directly in the database. It is the way
// to get the first admin when AUTH_ALLOW_ADMIN_SIGNUP is off.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/muhammadheryan/crm/cmd/config"
	"github.com/muhammadheryan/crm/constant"
	"github.com/muhammadheryan/crm/model"
	userRepo "github.com/muhammadheryan/crm/repository/user"
	"github.com/muhammadheryan/crm/utils/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

const minPasswordLen = 6

func main() {
	name := flag.String("name", "", "display name")
	email := flag.String("email", "", "login email")
	role := flag.String("role", string(constant.RoleEmployee), "employee or admin")
	flag.Parse()

	_ = godotenv.Load()
	if err := logger.Init(os.Getenv("APP_ENV"), ""); err != nil {
		panic(err)
	}
	defer logger.Close()

	if err := run(*name, *email, *role); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(name, email, roleName string) error {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return fmt.Errorf("-name and -email are required")
	}
	role, err := constant.ParseRole(roleName)
	if err != nil {
		return err
	}

	password, err := readPassword()
	if err != nil {
		return err
	}
	if len(password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}

	// only the database settings are needed here
	var cfg config.Config
	if err := cleanenv.ReadEnv(&cfg.Database); err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	db, err := sqlx.Connect("mysql", cfg.GetDSN())
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer db.Close()

	hashed, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	created, err := userRepo.NewUserRepository(db).Create(ctx, &model.UserEntity{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         role,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	logger.Info("user created", zap.Uint64("id", created.ID), zap.String("email", email), zap.String("role", string(role)))
	return nil
}

func readPassword() ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		// piped input: first line is the password
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return nil, fmt.Errorf("read password: %w", err)
		}
		return []byte(strings.TrimRight(line, "\r\n")), nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, err
	}
	fmt.Fprint(os.Stderr, "Repeat password: ")
	again, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, err
	}
	if string(pw) != string(again) {
		return nil, fmt.Errorf("passwords do not match")
	}
	return pw, nil
}
