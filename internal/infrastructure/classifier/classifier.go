// Package classifier normaliza nombres de ubicación crudos a nombres canónicos
// a partir de una tabla de alias.
package classifier

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

var _ ledger.LocationClassifier = (*AliasClassifier)(nil)

// Tipos de almacenamiento.
const (
	StorageIndoor    = "Indoor"
	StorageOutdoor   = "Outdoor"
	StorageSite      = "Site"
	StorageDangerous = "Dangerous"
	StorageUnknown   = "Unknown"
)

// Location entrada de la tabla: nombre canónico, tipo y alias aceptados.
type Location struct {
	Name        string   `mapstructure:"name"`
	StorageType string   `mapstructure:"storage_type"`
	Aliases     []string `mapstructure:"aliases"`
}

// DefaultLocations tabla base de la red de bodegas y sitios finales.
var DefaultLocations = []Location{
	{Name: "DSV Indoor", StorageType: StorageIndoor, Aliases: []string{"M44", "Indoor"}},
	{Name: "DSV Al Markaz", StorageType: StorageIndoor, Aliases: []string{"Al Markaz", "Markaz", "M1"}},
	{Name: "Hauler Indoor", StorageType: StorageIndoor},
	{Name: "DSV Outdoor", StorageType: StorageOutdoor, Aliases: []string{"Outdoor"}},
	{Name: "DSV MZP", StorageType: StorageOutdoor, Aliases: []string{"MZP"}},
	{Name: "MOSB", StorageType: StorageOutdoor},
	{Name: "AAA Storage", StorageType: StorageDangerous, Aliases: []string{"AAA"}},
	{Name: "AGI", StorageType: StorageSite, Aliases: []string{"Site AGI"}},
	{Name: "DAS", StorageType: StorageSite, Aliases: []string{"Site DAS"}},
	{Name: "MIR", StorageType: StorageSite, Aliases: []string{"Site MIR"}},
	{Name: "SHU", StorageType: StorageSite, Aliases: []string{"Site SHU"}},
}

// AliasClassifier resuelve por coincidencia exacta (plegado de mayúsculas y Unicode) y,
// si no hay, por contención de texto contra la tabla. Sin coincidencia devuelve UNKNOWN.
type AliasClassifier struct {
	exact   map[string]string // clave normalizada -> canónico
	keys    []aliasKey        // orden de la tabla para la coincidencia parcial
	storage map[string]string // canónico -> tipo
}

type aliasKey struct {
	key       string
	canonical string
}

// New construye el clasificador a partir de la tabla. Las entradas sin nombre se ignoran.
func New(locations []Location) *AliasClassifier {
	c := &AliasClassifier{
		exact:   make(map[string]string),
		storage: make(map[string]string),
	}
	for _, loc := range locations {
		name := strings.TrimSpace(loc.Name)
		if name == "" {
			continue
		}
		st := loc.StorageType
		if st == "" {
			st = StorageUnknown
		}
		c.storage[name] = st
		for _, raw := range append([]string{name}, loc.Aliases...) {
			k := normalize(raw)
			if k == "" {
				continue
			}
			if _, dup := c.exact[k]; dup {
				continue
			}
			c.exact[k] = name
			c.keys = append(c.keys, aliasKey{key: k, canonical: name})
		}
	}
	return c
}

// Canonical devuelve el nombre canónico o entity.UnknownLocation.
func (c *AliasClassifier) Canonical(raw string) string {
	k := normalize(raw)
	if k == "" {
		return entity.UnknownLocation
	}
	if name, ok := c.exact[k]; ok {
		return name
	}
	// coincidencia parcial: gana la clave más larga; códigos cortos (M1, AGI) solo valen exactos
	best, bestLen := entity.UnknownLocation, 0
	for _, a := range c.keys {
		if len(a.key) < minPartial || len(a.key) <= bestLen {
			continue
		}
		if strings.Contains(k, a.key) || (len(k) >= minPartial && strings.Contains(a.key, k)) {
			best, bestLen = a.canonical, len(a.key)
		}
	}
	return best
}

const minPartial = 4

// StorageType tipo de almacenamiento de un nombre canónico (Unknown si no está en la tabla).
func (c *AliasClassifier) StorageType(canonical string) string {
	if st, ok := c.storage[canonical]; ok {
		return st
	}
	return StorageUnknown
}

// IsWarehouse indica si el canónico es una bodega (no un sitio final).
func (c *AliasClassifier) IsWarehouse(canonical string) bool {
	switch c.StorageType(canonical) {
	case StorageIndoor, StorageOutdoor, StorageDangerous:
		return true
	}
	return false
}

var folder = cases.Fold()

// normalize NFKC + plegado de mayúsculas; guiones, guiones bajos y puntos cuentan como espacio.
func normalize(s string) string {
	s = folder.String(norm.NFKC.String(s))
	var b strings.Builder
	space := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		default:
			space = true
		}
	}
	return b.String()
}
