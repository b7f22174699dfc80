package config

import (
	"fmt"
	"maps"
	"strings"

	"github.com/spf13/viper"
)

// loadCompanies merges the built-in company names with a companies file
// (any format viper reads, under a "companies" key) and the inline
// COMPANIES list ("CODE=Name;CODE=Name"). Later sources win.
func loadCompanies(inline, file string) (map[string]string, error) {
	companies := maps.Clone(defaultCompanies)

	if file != "" {
		v := viper.New()
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read companies file %s: %w", file, err)
		}
		// viper lower-cases keys, company codes are upper-case by convention
		for code, name := range v.GetStringMapString("companies") {
			companies[strings.ToUpper(code)] = name
		}
	}

	for _, pair := range strings.Split(inline, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		code, name, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(code) == "" {
			return nil, fmt.Errorf("invalid COMPANIES entry %q, expected CODE=Name", pair)
		}
		companies[strings.TrimSpace(code)] = strings.TrimSpace(name)
	}
	return companies, nil
}
