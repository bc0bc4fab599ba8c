package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/lockinhq/lockin/internal/constants"
	"github.com/lockinhq/lockin/internal/keyring"
	"github.com/lockinhq/lockin/internal/models"
	"github.com/lockinhq/lockin/internal/storage"
	"github.com/lockinhq/lockin/internal/timeutil"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false

	if err := checkDocument(ctx); err != nil {
		fmt.Printf("❌ Document readable: FAIL\n   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Document readable: OK\n")
	}

	if err := checkProgressIntegrity(ctx); err != nil {
		fmt.Printf("❌ Syllabus progress integrity: FAIL\n   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Syllabus progress integrity: OK\n")
	}

	if err := checkTimerInvariant(ctx); err != nil {
		fmt.Printf("❌ Timer state: FAIL\n   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Timer state: OK\n")
	}

	if keyring.IsAvailable() {
		fmt.Printf("✓ OS keyring: OK\n")
	} else {
		fmt.Printf("⚠ OS keyring: WARNING\n   Keyring unavailable; sync credentials cannot be cached.\n")
	}

	if _, err := ConnectionString(); err != nil {
		fmt.Printf("⊘ Sync configured: SKIPPED (no connection string)\n")
	} else {
		fmt.Printf("✓ Sync configured: OK\n")
	}

	if err := checkClockSanity(ctx); err != nil {
		fmt.Printf("❌ Clock sanity: FAIL\n   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock sanity: OK\n")
	}

	if n, err := otherInstances(); err != nil {
		fmt.Printf("⚠ Single instance: WARNING\n   Could not scan processes: %v\n", err)
	} else if n > 0 {
		fmt.Printf("⚠ Single instance: WARNING\n   %d other %s process(es) running; concurrent writes can race.\n", n, constants.AppName)
	} else {
		fmt.Printf("✓ Single instance: OK\n")
	}

	fmt.Println()
	if hasError {
		return fmt.Errorf("diagnostics found problems")
	}
	fmt.Println("All checks passed.")
	return nil
}

func checkDocument(ctx *Context) error {
	_, err := ctx.Store.Load()
	if err == storage.ErrNotFound {
		return nil // first run is fine
	}
	return err
}

func checkProgressIntegrity(ctx *Context) error {
	state := ctx.Engine.State()
	seen := make(map[models.ProgressKey]bool)
	for _, p := range state.Progress {
		if seen[p.Key()] {
			return fmt.Errorf("duplicate progress entry for %s (class %d %s)", p.Chapter, p.ClassID, p.Subject)
		}
		seen[p.Key()] = true
		if !constants.SyllabusHas(p.ClassID, string(p.Subject), p.Chapter) {
			return fmt.Errorf("progress entry %q is not in the class %d %s syllabus", p.Chapter, p.ClassID, p.Subject)
		}
	}
	return nil
}

func checkTimerInvariant(ctx *Context) error {
	t := ctx.Engine.State().Timer
	if t.IsRunning && t.StartTime == 0 {
		return fmt.Errorf("timer is running without a start time")
	}
	if !t.IsRunning && t.StartTime != 0 {
		return fmt.Errorf("timer has a start time but is not running")
	}
	return nil
}

func checkClockSanity(ctx *Context) error {
	now := ctx.Clock.Now()
	if now.Year() < 2024 {
		return fmt.Errorf("system clock looks wrong: %v", now)
	}
	key := timeutil.DayKey(now)
	if _, err := time.Parse(constants.DateFormat, key); err != nil {
		return fmt.Errorf("day-key %q does not parse: %w", key, err)
	}
	return nil
}

func otherInstances() (int, error) {
	procs, err := ps.Processes()
	if err != nil {
		return 0, err
	}
	count := 0
	self := os.Getpid()
	for _, p := range procs {
		if p.Pid() != self && strings.HasPrefix(p.Executable(), constants.AppName) {
			count++
		}
	}
	return count, nil
}
