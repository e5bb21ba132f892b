package policy

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

var ErrUnknownVariant = errors.New("unknown variant")

// Catalog mantiene las variantes disponibles indexadas por nombre.
type Catalog struct {
	variants    map[string]Variant
	defaultName string
}

// NewCatalog construye un catalogo validando cada variante.
func NewCatalog(defaultName string, variants ...Variant) (*Catalog, error) {
	c := &Catalog{variants: make(map[string]Variant, len(variants))}
	for _, v := range variants {
		if err := v.Validate(); err != nil {
			return nil, err
		}
		c.variants[v.Name] = v
	}
	if err := c.SetDefault(defaultName); err != nil {
		return nil, err
	}
	return c, nil
}

// DefaultCatalog contiene classic y dashboard.
func DefaultCatalog(defaultName string) (*Catalog, error) {
	return NewCatalog(defaultName, Classic(), Dashboard())
}

// LoadCatalog combina las variantes incluidas con las de un archivo YAML.
// Una variante del archivo con el mismo nombre reemplaza a la incluida.
// Con path vacio devuelve DefaultCatalog.
func LoadCatalog(path, defaultName string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultCatalog(defaultName)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read variants file: %w", err)
	}

	var fromFile []Variant
	if err := v.UnmarshalKey("variants", &fromFile); err != nil {
		return nil, fmt.Errorf("decode variants file: %w", err)
	}

	merged := map[string]Variant{
		VariantClassic:   Classic(),
		VariantDashboard: Dashboard(),
	}
	for _, fv := range fromFile {
		merged[fv.Name] = fv
	}

	if name := v.GetString("default_variant"); name != "" && strings.TrimSpace(defaultName) == "" {
		defaultName = name
	}

	all := make([]Variant, 0, len(merged))
	for _, mv := range merged {
		all = append(all, mv)
	}
	return NewCatalog(defaultName, all...)
}

// Get busca una variante; nombre vacio devuelve la variante por defecto.
func (c *Catalog) Get(name string) (Variant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = c.defaultName
	}
	v, ok := c.variants[name]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
	return v, nil
}

// Default devuelve la variante por defecto.
func (c *Catalog) Default() Variant {
	return c.variants[c.defaultName]
}

// SetDefault cambia la variante por defecto; vacio elige dashboard si existe.
func (c *Catalog) SetDefault(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		name = VariantDashboard
	}
	if _, ok := c.variants[name]; !ok {
		return fmt.Errorf("%w: default %q", ErrUnknownVariant, name)
	}
	c.defaultName = name
	return nil
}

// List devuelve las variantes ordenadas por nombre.
func (c *Catalog) List() []Variant {
	out := make([]Variant, 0, len(c.variants))
	for _, v := range c.variants {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
