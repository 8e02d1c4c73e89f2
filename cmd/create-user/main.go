package main

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"
	"voltedge_site_go/config"
	"voltedge_site_go/db"
	"voltedge_site_go/models"
	"voltedge_site_go/services"

	"golang.org/x/term"
)

const passwordAttempts = 3

func main() {
	cfg := config.Load()

	if err := db.Initialize(db.Options{
		Path:        cfg.DBPath,
		TursoURL:    cfg.TursoDatabaseURL,
		TursoToken:  cfg.TursoAuthToken,
		Environment: cfg.Environment,
	}); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(&models.User{}, &models.Session{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	in := bufio.NewReader(os.Stdin)
	fmt.Print("=== New back-office administrator ===\n\n")

	name := prompt(in, "Name")
	email := prompt(in, "Email")
	password, err := choosePassword()
	if err != nil {
		log.Fatal(err)
	}

	user, err := services.CreateAdminUser(db.DB, name, email, password)
	if err != nil {
		log.Fatalf("Failed to create user: %s", explain(err))
	}

	fmt.Printf("\n✓ Created %s <%s> (id %s)\n", user.Name, user.Email, user.ID)
	fmt.Println("Sign in with: voltedge-admin login --email " + user.Email)
}

func prompt(in *bufio.Reader, label string) string {
	fmt.Printf("%s: ", label)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

func readSecret(label string) (string, error) {
	fmt.Printf("%s: ", label)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}

// choosePassword asks until the password meets the policy and is confirmed.
func choosePassword() (string, error) {
	fmt.Printf("Passwords need %d+ characters with upper and lower case letters, a number and a symbol.\n", services.MinPasswordLength)
	for attempt := 1; attempt <= passwordAttempts; attempt++ {
		password, err := readSecret("Password")
		if err != nil {
			return "", err
		}
		if err := services.ValidatePassword(password); err != nil {
			fmt.Println("  " + explain(err))
			continue
		}
		confirm, err := readSecret("Confirm password")
		if err != nil {
			return "", err
		}
		if confirm != password {
			fmt.Println("  Passwords do not match")
			continue
		}
		return password, nil
	}
	return "", errors.New("no acceptable password entered")
}

func explain(err error) string {
	var verr *services.ValidationError
	if !errors.As(err, &verr) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verr.Fields))
	for field, msg := range verr.Fields {
		msgs = append(msgs, field+": "+msg)
	}
	return strings.Join(msgs, "; ")
}
