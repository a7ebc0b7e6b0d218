// Command provision registers a user in the kiosk's directory and writes
// their scannable QR image. If no code is given one is generated.
//
// Usage:
//
//	provision -first John -last Buck -email jbuck@gmail.com [-code h65ld310]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/kioskworks/qrkiosk/internal/app"
	"github.com/kioskworks/qrkiosk/internal/config"
	"github.com/kioskworks/qrkiosk/internal/logging"
	"github.com/kioskworks/qrkiosk/internal/provision"
	"github.com/kioskworks/qrkiosk/internal/service"
)

func main() {
	var (
		first = flag.String("first", "", "first name (required)")
		last  = flag.String("last", "", "last name (required)")
		email = flag.String("email", "", "email address (required)")
		code  = flag.String("code", "", "access code (generated when empty)")
	)
	flag.Parse()

	if *first == "" || *last == "" || *email == "" {
		flag.Usage()
		os.Exit(2)
	}

	if *code == "" {
		// first uuid group: short enough to type, unique enough for a badge
		*code = strings.SplitN(uuid.NewString(), "-", 2)[0]
	}

	cfg := config.LoadConfig()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	ctx := context.Background()

	db, err := app.OpenDatabase(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	directory := service.NewDirectoryService(db, provision.NewQRWriter(cfg.QRImageDir), logger)
	if err := directory.AddUser(ctx, *code, *first, *last, *email); err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Printf("registered %s %s with code %s\n", *first, *last, *code)
}
