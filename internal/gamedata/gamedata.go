// Package gamedata loads character, weapon, harmony, echo skill and stage effect sheets from YAML files.
package gamedata

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AoTofu/wuwa-calc-web/internal/domain"
)

var ErrNotFound = errors.New("not found")

// Data is every sheet under a data root, keyed by sheet name.
type Data struct {
	Characters   map[string]*domain.Character
	Weapons      map[string]*domain.Weapon
	Harmonies    map[string]*domain.Harmony
	EchoSkills   map[string]*domain.EchoSkill
	StageEffects map[string]*domain.StageEffect
}

// Load reads <root>/{characters,weapons,harmonies,echo_skills,stage_effects}/*.yaml. Missing directories load as empty.
func Load(root string) (*Data, error) {
	var d Data
	var err error
	if d.Characters, err = loadDir(filepath.Join(root, "characters"), func(c *domain.Character) string { return c.Name }); err != nil {
		return nil, err
	}
	if d.Weapons, err = loadDir(filepath.Join(root, "weapons"), func(w *domain.Weapon) string { return w.Name }); err != nil {
		return nil, err
	}
	if d.Harmonies, err = loadDir(filepath.Join(root, "harmonies"), func(h *domain.Harmony) string { return h.Name }); err != nil {
		return nil, err
	}
	if d.EchoSkills, err = loadDir(filepath.Join(root, "echo_skills"), func(s *domain.EchoSkill) string { return s.Name }); err != nil {
		return nil, err
	}
	if d.StageEffects, err = loadDir(filepath.Join(root, "stage_effects"), func(s *domain.StageEffect) string { return s.Name }); err != nil {
		return nil, err
	}
	return &d, nil
}

func loadDir[T any](dir string, name func(*T) string) (map[string]*T, error) {
	out := map[string]*T{}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return out, nil
		}
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	slices.Sort(files)

	for _, path := range files {
		v, err := decodeFile[T](path)
		if err != nil {
			return nil, err
		}
		key := strings.TrimSpace(name(v))
		if key == "" {
			return nil, fmt.Errorf("%s: missing name", path)
		}
		if _, dup := out[key]; dup {
			return nil, fmt.Errorf("%s: duplicate name %q", path, key)
		}
		out[key] = v
	}
	return out, nil
}

func decodeFile[T any](path string) (*T, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	v := new(T)
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return v, nil
}

func lookup[T any](m map[string]*T, kind, name string) (*T, error) {
	v, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("%s %q: %w", kind, name, ErrNotFound)
	}
	return v, nil
}

func (d *Data) Character(name string) (*domain.Character, error) {
	return lookup(d.Characters, "character", name)
}

func (d *Data) Weapon(name string) (*domain.Weapon, error) {
	return lookup(d.Weapons, "weapon", name)
}

func (d *Data) Harmony(name string) (*domain.Harmony, error) {
	return lookup(d.Harmonies, "harmony", name)
}

func (d *Data) EchoSkill(name string) (*domain.EchoSkill, error) {
	return lookup(d.EchoSkills, "echo skill", name)
}

func (d *Data) StageEffect(name string) (*domain.StageEffect, error) {
	return lookup(d.StageEffects, "stage effect", name)
}
