// cmd/tools/catalog-editor/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"mergington-activities/internal/catalog"
	"mergington-activities/internal/registry"
)

const defaultPath = "configs/catalog.json"

func main() {
	initCmd := flag.NewFlagSet("init", flag.ExitOnError)
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	initPath := initCmd.String("path", defaultPath, "Path to catalog file")
	force := initCmd.Bool("force", false, "Overwrite an existing file")

	addPath := addCmd.String("path", defaultPath, "Path to catalog file")
	name := addCmd.String("name", "", "Activity name (e.g., Robotics Club)")
	description := addCmd.String("description", "", "Description")
	schedule := addCmd.String("schedule", "", "Schedule (e.g., Mondays, 3:30 PM - 5:00 PM)")
	maxParticipants := addCmd.Int("max", 0, "Maximum participants")

	updatePath := updateCmd.String("path", defaultPath, "Path to catalog file")
	updateName := updateCmd.String("name", "", "Activity name to update")
	field := updateCmd.String("field", "", "Field to update (description, schedule, max_participants)")
	value := updateCmd.String("value", "", "New value for the field")

	validatePath := validateCmd.String("path", defaultPath, "Path to catalog file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "init":
		_ = initCmd.Parse(os.Args[2:])
		if err = initCatalog(*initPath, *force); err == nil {
			fmt.Printf("Wrote built-in catalog to %s\n", *initPath)
		}

	case "add":
		_ = addCmd.Parse(os.Args[2:])
		if *name == "" || *schedule == "" || *maxParticipants <= 0 {
			fmt.Println("Error: name, schedule and a positive max are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		err = addActivity(*addPath, *name, registry.Activity{
			Description:     *description,
			Schedule:        *schedule,
			MaxParticipants: *maxParticipants,
			Participants:    []string{},
		})
		if err == nil {
			fmt.Printf("Added activity: %s\n", *name)
		}

	case "update":
		_ = updateCmd.Parse(os.Args[2:])
		if *updateName == "" || *field == "" {
			fmt.Println("Error: name and field are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err = updateActivity(*updatePath, *updateName, *field, *value); err == nil {
			fmt.Printf("Updated activity %s, field %s to %s\n", *updateName, *field, *value)
		}

	case "validate":
		_ = validateCmd.Parse(os.Args[2:])
		var summary string
		if summary, err = validateCatalog(*validatePath); err == nil {
			fmt.Print(summary)
		}

	default:
		help()
		return
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func initCatalog(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use -force to overwrite", path)
	}
	return catalog.WriteFile(path, catalog.Default())
}

func addActivity(path, name string, activity registry.Activity) error {
	activities, err := catalog.LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		activities = map[string]registry.Activity{}
	} else if err != nil {
		return err
	}

	if _, exists := activities[name]; exists {
		return fmt.Errorf("activity %q already exists", name)
	}
	activities[name] = activity
	return catalog.WriteFile(path, activities)
}

func updateActivity(path, name, field, value string) error {
	activities, err := catalog.LoadFile(path)
	if err != nil {
		return err
	}

	activity, ok := activities[name]
	if !ok {
		return fmt.Errorf("activity %q not found", name)
	}

	switch field {
	case "description":
		activity.Description = value
	case "schedule":
		activity.Schedule = value
	case "max_participants":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid max_participants value: %q", value)
		}
		activity.MaxParticipants = n
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	activities[name] = activity
	return catalog.WriteFile(path, activities)
}

// validateCatalog checks the file against the schema and the registry's own
// seed rules, returning a printable summary.
func validateCatalog(path string) (string, error) {
	activities, err := catalog.LoadFile(path)
	if err != nil {
		return "", err
	}
	reg, err := registry.New(activities)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Catalog validation passed. Found %d activities.\n", len(activities))
	for _, n := range reg.Names() {
		a := activities[n]
		fmt.Fprintf(&b, "  %-20s %2d/%-3d %s\n", n, len(a.Participants), a.MaxParticipants, a.Schedule)
	}
	return b.String(), nil
}

func help() {
	fmt.Print(`
Usage: catalog-editor <command> [flags]

Commands:
  init      Write the built-in catalog to a file
  add       Add a new activity to the catalog
  update    Update an existing activity's field
  validate  Validate the catalog file
  help      Show this help message

Examples:
  catalog-editor init -path configs/catalog.json
  catalog-editor add -name "Robotics Club" -description "Build and program robots" -schedule "Mondays, 3:30 PM - 5:00 PM" -max 16
  catalog-editor update -name "Robotics Club" -field max_participants -value 20
  catalog-editor validate -path configs/catalog.json

Use 'catalog-editor <command> -h' for more information about a command.
` + "\n")
}
