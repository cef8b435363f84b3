package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"github.com/milk9111/ghostwave/prefabs"
)

// documents maps each schema file to the prefab type it validates.
var documents = []struct {
	file        string
	title       string
	description string
	value       any
}{
	{"ghost.schema.json", "Ghost Prefab", "Validates prefabs/ghost_*.yaml minion definitions.", new(prefabs.GhostSpec)},
	{"player.schema.json", "Player Prefab", "Validates prefabs/player.yaml including wand and spell tuning.", new(prefabs.PlayerSpec)},
	{"witch.schema.json", "Witch Prefab", "Validates prefabs/witch.yaml boss encounter tuning.", new(prefabs.WitchSpec)},
	{"waves.schema.json", "Wave List", "Validates prefabs/waves.yaml spawn layout and waves.", new(prefabs.WavesSpec)},
	{"pickups.schema.json", "Pickups", "Validates prefabs/pickups.yaml potion definitions.", new(prefabs.PickupsSpec)},
	{"difficulty.schema.json", "Difficulty", "Validates prefabs/difficulty.yaml tiers and kill counter.", new(prefabs.DifficultySpec)},
}

func main() {
	var outDir string
	flag.StringVar(&outDir, "out", "", "directory to write the JSON schemas into")
	flag.Parse()

	if outDir == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	for _, doc := range documents {
		schema := buildSchema(doc.value, doc.title, doc.description)
		if err := writeSchema(filepath.Join(outDir, doc.file), schema); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", doc.file, err)
			os.Exit(1)
		}
	}
}

func buildSchema(v any, title, description string) *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(v)
	schema.Title = title
	schema.Description = description
	return schema
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}
	return nil
}
