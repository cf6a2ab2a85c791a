package main

import (
	"flag"
	"fmt"
	"os"
	"reflect"

	"github.com/chrissnell/muadhin/pkg/config"
)

func main() {
	var (
		yamlFile   = flag.String("yaml", "", "Path to YAML configuration file")
		sqliteFile = flag.String("sqlite", "", "Path to SQLite configuration file")
	)
	flag.Parse()

	if *yamlFile == "" || *sqliteFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -yaml <config.yaml> -sqlite <config.db>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	fmt.Println("Configuration Comparison Test")
	fmt.Println("===========================")

	// Load YAML configuration
	fmt.Printf("Loading YAML configuration: %s\n", *yamlFile)
	yamlProvider := config.NewYAMLProvider(*yamlFile)
	yamlConfig, err := yamlProvider.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading YAML config: %v\n", err)
		os.Exit(1)
	}

	// Load SQLite configuration
	fmt.Printf("Loading SQLite configuration: %s\n", *sqliteFile)
	sqliteProvider, err := config.NewSQLiteProvider(*sqliteFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating SQLite provider: %v\n", err)
		os.Exit(1)
	}
	defer sqliteProvider.Close()

	sqliteConfig, err := sqliteProvider.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading SQLite config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nComparison Results:")
	fmt.Println("==================")

	// SQLite returns locations ordered by name, so match them up by name
	fmt.Printf("Locations - YAML: %d, SQLite: %d\n", len(yamlConfig.Locations), len(sqliteConfig.Locations))
	if len(yamlConfig.Locations) == len(sqliteConfig.Locations) {
		fmt.Println("✓ Location count matches")
	} else {
		fmt.Println("✗ Location count mismatch")
	}
	for _, yamlLocation := range yamlConfig.Locations {
		sqliteLocation, ok := sqliteConfig.Location(yamlLocation.Name)
		switch {
		case !ok:
			fmt.Printf("✗ Location %s missing from SQLite\n", yamlLocation.Name)
		case reflect.DeepEqual(yamlLocation, sqliteLocation):
			fmt.Printf("✓ Location %s matches\n", yamlLocation.Name)
		default:
			fmt.Printf("✗ Location %s differs\n", yamlLocation.Name)
			printLocationDiff(yamlLocation, sqliteLocation)
		}
	}

	fmt.Println("\nSections:")
	compareSection("Calculation", yamlConfig.Calculation, sqliteConfig.Calculation)
	compareSection("REST", yamlConfig.REST, sqliteConfig.REST)
	compareSection("Adhan", yamlConfig.Adhan, sqliteConfig.Adhan)
	compareSection("Preferences", yamlConfig.Preferences, sqliteConfig.Preferences)

	fmt.Println("\nTest completed!")
}

func compareSection(name string, yaml, sqlite interface{}) {
	if reflect.DeepEqual(yaml, sqlite) {
		fmt.Printf("✓ %s configuration matches\n", name)
		return
	}
	fmt.Printf("✗ %s configuration differs\n", name)
	fmt.Printf("  YAML:   %+v\n", yaml)
	fmt.Printf("  SQLite: %+v\n", sqlite)
}

func printLocationDiff(yaml, sqlite config.LocationData) {
	if yaml.Latitude != sqlite.Latitude || yaml.Longitude != sqlite.Longitude {
		fmt.Printf("  Coordinates: YAML=%v,%v SQLite=%v,%v\n", yaml.Latitude, yaml.Longitude, sqlite.Latitude, sqlite.Longitude)
	}
	if yaml.Timezone != sqlite.Timezone {
		fmt.Printf("  Timezone: YAML='%s', SQLite='%s'\n", yaml.Timezone, sqlite.Timezone)
	}
	if (yaml.UTCOffset == nil) != (sqlite.UTCOffset == nil) ||
		(yaml.UTCOffset != nil && *yaml.UTCOffset != *sqlite.UTCOffset) {
		fmt.Printf("  UTC offset: YAML=%v, SQLite=%v\n", offsetString(yaml.UTCOffset), offsetString(sqlite.UTCOffset))
	}
}

func offsetString(o *float64) string {
	if o == nil {
		return "unset"
	}
	return fmt.Sprintf("%+g", *o)
}
