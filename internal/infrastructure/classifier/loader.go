package classifier

import (
	"fmt"

	"github.com/spf13/viper"
)

// LoadFile lee la tabla de ubicaciones desde un archivo (YAML, JSON o TOML según la extensión):
//
//	locations:
//	  - name: DSV Indoor
//	    storage_type: Indoor
//	    aliases: [M44, Indoor]
func LoadFile(path string) (*AliasClassifier, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("leer tabla de ubicaciones %s: %w", path, err)
	}
	var locations []Location
	if err := v.UnmarshalKey("locations", &locations); err != nil {
		return nil, fmt.Errorf("decodificar tabla de ubicaciones: %w", err)
	}
	if len(locations) == 0 {
		return nil, fmt.Errorf("tabla de ubicaciones %s vacía", path)
	}
	return New(locations), nil
}
