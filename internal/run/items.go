package run

import (
	"errors"
	"fmt"
	"math"
	"os"
	"runboard/internal/providers"
	"runboard/internal/structures"
	"sort"

	"gopkg.in/yaml.v3"
)

const MaxInventory = 5

type ItemDef struct {
	ID              string  `yaml:"id" json:"id"`
	Name            string  `yaml:"name" json:"name"`
	DamagePct       float64 `yaml:"damagePct" json:"damagePct"`
	AttackSpeedPct  float64 `yaml:"attackSpeedPct" json:"attackSpeedPct"`
	DashCooldownPct float64 `yaml:"dashCooldownPct" json:"dashCooldownPct"`
	ScalePct        float64 `yaml:"scalePct" json:"scalePct"`
}

type ItemCatalog struct {
	items map[string]ItemDef
}

var defaultItems = []ItemDef{
	{ID: "whetstone", Name: "Whetstone", DamagePct: 10},
	{ID: "war_drum", Name: "War Drum", AttackSpeedPct: 12},
	{ID: "feather_boots", Name: "Feather Boots", DashCooldownPct: 15},
	{ID: "giant_belt", Name: "Giant Belt", ScalePct: 20, DamagePct: 5},
	{ID: "glass_blade", Name: "Glass Blade", DamagePct: 25, ScalePct: -10},
	{ID: "hourglass", Name: "Hourglass", AttackSpeedPct: 5, DashCooldownPct: 10},
}

func NewItemCatalog(items []ItemDef) *ItemCatalog {
	c := &ItemCatalog{items: make(map[string]ItemDef, len(items))}
	for _, it := range items {
		if it.ID == "" {
			continue
		}
		c.items[it.ID] = it
	}
	return c
}

func DefaultItemCatalog() *ItemCatalog {
	return NewItemCatalog(defaultItems)
}

type catalogFile struct {
	Items []ItemDef `yaml:"items"`
}

// LoadItemCatalog reads the YAML catalog named in config. A missing path or
// file yields the built-in catalog.
func LoadItemCatalog(conf *structures.Config, logger providers.Logger) (*ItemCatalog, error) {
	path := conf.Items.CatalogPath
	if path == "" {
		return DefaultItemCatalog(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warnf(providers.TypeRun, "Item catalog %s not found, using built-in items", path)
			return DefaultItemCatalog(), nil
		}
		return nil, fmt.Errorf("read item catalog: %w", err)
	}
	var file catalogFile
	if err := yaml.Unmarshal(b, &file); err != nil {
		return nil, fmt.Errorf("parse item catalog %s: %w", path, err)
	}
	logger.Infof(providers.TypeRun, "Loaded %d items from %s", len(file.Items), path)
	return NewItemCatalog(file.Items), nil
}

func (c *ItemCatalog) Lookup(id string) (ItemDef, bool) {
	it, ok := c.items[id]
	return it, ok
}

func (c *ItemCatalog) IDs() []string {
	ids := make([]string, 0, len(c.items))
	for id := range c.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

const minDashCooldownMultiplier = 0.1

// DerivedStats are the combat multipliers produced by the inventory.
type DerivedStats struct {
	DamageMultiplier       float64 `json:"damageMultiplier"`
	AttackSpeedMultiplier  float64 `json:"attackSpeedMultiplier"`
	DashCooldownMultiplier float64 `json:"dashCooldownMultiplier"`
	ScaleMultiplier        float64 `json:"scaleMultiplier"`
}

func NeutralDerivedStats() DerivedStats {
	return DerivedStats{1, 1, 1, 1}
}

// ComputeDerivedStats sums flat percent contributions of every held item.
// Unknown ids contribute nothing.
func ComputeDerivedStats(inventory []string, catalog *ItemCatalog) DerivedStats {
	var dmg, as, dash, scale float64
	for _, id := range inventory {
		it, ok := catalog.Lookup(id)
		if !ok {
			continue
		}
		dmg += it.DamagePct
		as += it.AttackSpeedPct
		dash += it.DashCooldownPct
		scale += it.ScalePct
	}
	return DerivedStats{
		DamageMultiplier:       math.Max(0, 1+dmg/100),
		AttackSpeedMultiplier:  math.Max(0, 1+as/100),
		DashCooldownMultiplier: math.Max(minDashCooldownMultiplier, 1-dash/100),
		ScaleMultiplier:        math.Max(0, 1+scale/100),
	}
}
