package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/yungbote/emission-report/internal/emissions/app"
	"github.com/yungbote/emission-report/internal/platform/shutdown"
)

func main() {
	var dir string
	flag.StringVar(&dir, "dir", "", "directory for AllEmissionRecords.csv (defaults to export.dir)")
	flag.Parse()

	if d := strings.TrimSpace(dir); d != "" {
		if err := os.Setenv("ER_EXPORT_DIR", d); err != nil {
			fmt.Printf("set export dir: %v\n", err)
			os.Exit(1)
		}
	}

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()

	path, n, err := application.Reports.ExportAll(ctx)
	if err != nil {
		application.Log.Error("export failed", "error", err)
		application.Close()
		os.Exit(1)
	}
	fmt.Printf("exported %d records to %s\n", n, path)
}
