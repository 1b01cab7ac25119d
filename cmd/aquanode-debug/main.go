package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/aquasense/aquanode/internal/calibration"
)

func main() {
	DebugCLI()
}

func DebugCLI() {
	var dbPath, command, key, value string
	flag.StringVar(&dbPath, "db", "data/aquanode.db", "Path to the SQLite database file")
	flag.StringVar(&command, "cmd", "", "Command to run: show-calibration, set-coefficient, set-power-save")
	flag.StringVar(&key, "key", "", "Coefficient name: ph_slope, ph_intercept, turb_slope, turb_intercept, tds_k")
	flag.StringVar(&value, "value", "", "Value to set (float for coefficients, true/false for power save)")
	help := flag.Bool("help", false, "Show help")
	flag.Parse()

	if *help || command == "" {
		fmt.Println("\nUsage of aquanode-debug:")
		fmt.Println("  -db string\tPath to the SQLite database file (default 'data/aquanode.db')")
		fmt.Println("  -cmd string\tCommand to run: show-calibration, set-coefficient, set-power-save")
		fmt.Println("  -key string\tCoefficient name for set-coefficient")
		fmt.Println("  -value string\tValue to set")
		fmt.Println("  -help\tShow this help message")
		os.Exit(0)
	}

	store, err := calibration.Open(dbPath)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch command {
	case "show-calibration":
		err = showCalibration(store)
	case "set-coefficient":
		err = setCoefficient(store, key, value)
	case "set-power-save":
		err = setPowerSave(store, value)
	default:
		fmt.Println("Invalid command")
		os.Exit(1)
	}

	if err != nil {
		fmt.Printf("Command %s failed: %v\n", command, err)
		os.Exit(1)
	}
}

func showCalibration(store *calibration.Store) error {
	profile, err := store.Load()
	if err != nil {
		return err
	}
	powerSave, err := store.LoadPowerSave()
	if err != nil {
		return err
	}

	fmt.Printf("ph_slope:        %g\n", profile.PHSlope)
	fmt.Printf("ph_intercept:    %g\n", profile.PHIntercept)
	fmt.Printf("turb_slope:      %g\n", profile.TurbSlope)
	fmt.Printf("turb_intercept:  %g\n", profile.TurbIntercept)
	fmt.Printf("tds_k:           %g\n", profile.TDSK)
	fmt.Printf("power_save:      %v\n", powerSave)
	return nil
}

func setCoefficient(store *calibration.Store, key, value string) error {
	if key == "" || value == "" {
		return fmt.Errorf("both -key and -value are required")
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", value, err)
	}

	profile, err := store.Load()
	if err != nil {
		return err
	}

	switch key {
	case "ph_slope":
		profile.PHSlope = v
	case "ph_intercept":
		profile.PHIntercept = v
	case "turb_slope":
		profile.TurbSlope = v
	case "turb_intercept":
		profile.TurbIntercept = v
	case "tds_k":
		profile.TDSK = v
	default:
		return fmt.Errorf("unknown coefficient %q", key)
	}

	// Saves write the whole profile so a partial update never persists.
	if err := store.Save(profile); err != nil {
		return err
	}
	fmt.Printf("Set %s to %g\n", key, v)
	return nil
}

func setPowerSave(store *calibration.Store, value string) error {
	enabled, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", value, err)
	}
	if err := store.SetPowerSave(enabled); err != nil {
		return err
	}
	fmt.Printf("Set power_save to %v\n", enabled)
	return nil
}
