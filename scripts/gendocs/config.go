package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/leapstack-labs/wordgen/internal/cli/config"
)

// configField is one documented configuration key.
type configField struct {
	Key     string
	Type    string
	Default string
}

// configFields lists the koanf keys of v's struct type with their defaults,
// descending into nested structs.
func configFields(prefix string, v reflect.Value) []configField {
	var fields []configField
	t := v.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		key := f.Tag.Get("koanf")
		if key == "" || key == "-" {
			continue
		}
		if prefix != "" {
			key = prefix + "." + key
		}
		fv := v.Field(i)
		if fv.Kind() == reflect.Struct {
			fields = append(fields, configFields(key, fv)...)
			continue
		}
		def := fmt.Sprint(fv.Interface())
		if fv.Kind() == reflect.Slice || fv.Kind() == reflect.Map {
			def = "-"
		}
		fields = append(fields, configField{Key: key, Type: fv.Type().String(), Default: def})
	}
	return fields
}

// generateConfigDocs writes the configuration reference.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Configuration", "wordgen configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph(fmt.Sprintf("wordgen reads %s from the working directory or the nearest parent directory that has one. "+
		"Relative paths in the file are resolved against the file's directory.", InlineCode(config.FileNames[0])))

	var rows [][]string
	for _, f := range configFields("", reflect.ValueOf(*config.Default())) {
		env := config.EnvPrefix + strings.ToUpper(strings.ReplaceAll(f.Key, ".", "_"))
		rows = append(rows, []string{InlineCode(f.Key), f.Type, InlineCode(f.Default), InlineCode(env)})
	}
	w.Table([]string{"Key", "Type", "Default", "Environment"}, rows)

	w.Header(2, "Precedence")
	w.BulletList([]string{
		"Command-line flags",
		"Environment variables",
		InlineCode(config.FileNames[0]),
		"Built-in defaults",
	})

	if err := os.WriteFile(filepath.Join(outDir, "configuration.md"), w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated configuration.md")
	return nil
}
