package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"gitlab.com/dirk.krummacker/businesscard-service/internal/config"
	"gitlab.com/dirk.krummacker/businesscard-service/internal/store"
)

// Usage example on the command line:
// > DBHOST=localhost:3306 DBUSER=dirk DBPWD=bullo92 go run main.go -command=up
func main() {
	commandPtr := flag.String("command", "up", "the goose command to run: up, down, status, ...")
	flag.Parse()

	ctx := context.Background()
	sqlDB, err := store.OpenMySQL(ctx, *config.Load())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := store.Migrate(ctx, sqlDB, *commandPtr, flag.Args()...); err != nil {
		fmt.Fprintln(os.Stderr, err)
		sqlDB.Close()
		os.Exit(1)
	}
}
