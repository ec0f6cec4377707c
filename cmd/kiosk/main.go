// cmd/kiosk/main.go
//
// Terminal mode of the station kiosk: one controller, one RFID reader on
// stdin. Lines are tag scans; "stop" and "hint" are the two staff actions
// available on the active screen.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/m32jawad/Arena/internal/clock"
	"github.com/m32jawad/Arena/internal/kiosk"
	"github.com/m32jawad/Arena/internal/poller"
)

func main() {
	station := flag.Int("station", 0, "controller id this kiosk is bound to")
	server := flag.String("server", "", "arena server base URL")
	flag.Parse()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	if *station == 0 {
		if v, err := strconv.Atoi(os.Getenv("STATION_ID")); err == nil {
			*station = v
		}
	}
	if *station == 0 {
		logger.Fatal("no station selected: pass -station or set STATION_ID")
	}
	baseURL := *server
	if baseURL == "" {
		baseURL = os.Getenv("ARENA_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := kiosk.NewAPIClient(baseURL)
	m := kiosk.NewMachine(client, logger)
	defer m.Close()
	m.OnChange = render

	m.Dispatch(ctx, kiosk.SelectStation{StationID: *station})

	// background refresh of the station's recent-scan panel
	recent := poller.New(10*time.Second, func(ctx context.Context) error {
		scans, err := client.RecentScans(ctx, *station, 5)
		if err != nil {
			return err
		}
		if len(scans) > 0 {
			fmt.Printf("  recent: %s (%s)\n", scans[0].PartyName, scans[0].Result)
		}
		return nil
	}, logger)
	recent.Start(ctx)
	defer recent.Stop()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		state := m.State()
		switch {
		case line == "stop" && state.Phase == kiosk.PhaseActive:
			m.Dispatch(ctx, kiosk.ManualStop{})
		case line == "hint" && state.Phase == kiosk.PhaseActive:
			m.Dispatch(ctx, kiosk.ToggleHint{})
		case state.Phase == kiosk.PhaseReady:
			m.Dispatch(ctx, kiosk.ScanTag{Tag: line})
		case state.Phase == kiosk.PhaseResult:
			m.Dispatch(ctx, kiosk.StaffScan{Tag: line})
		}
	}
}

func render(s kiosk.State) {
	switch s.Phase {
	case kiosk.PhaseOffline:
		fmt.Println("[offline] no station selected")
	case kiosk.PhaseReady:
		fmt.Printf("[station %d] scan a tag to begin\n", s.StationID)
		if s.Err != "" {
			fmt.Printf("  !! %s\n", s.Err)
		}
	case kiosk.PhaseActive:
		name := ""
		if s.Session != nil {
			name = s.Session.PartyName
		}
		fmt.Printf("\r[%s] %s  ", clock.FormatClock(s.Remaining), name)
		if s.HintShown && s.Hint != "" {
			fmt.Printf("\n  hint: %s\n", s.Hint)
		}
		if s.Stopping {
			fmt.Println("\n  ending session...")
		}
	case kiosk.PhaseResult:
		fmt.Println()
		if s.Result != nil {
			if s.Result.Points != nil {
				fmt.Printf("[result] %s scored %d points (%d from remaining time)\n",
					s.Result.PartyName, *s.Result.Points, s.Result.RemainingPointsAdded)
			} else {
				fmt.Printf("[result] %s: session end failed: %s\n", s.Result.PartyName, s.Result.Err)
			}
		}
		fmt.Println("  scan a staff tag to release this kiosk")
		if s.StaffErr != "" {
			fmt.Printf("  !! %s\n", s.StaffErr)
		}
	}
}
