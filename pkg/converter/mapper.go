// Package converter fans a single marketplace transaction out into Yayoi
// ledger entries and partitions them into import batches by settlement
// method.
package converter

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile holds the account names used for one marketplace channel.
type Profile struct {
	Counterparty   string `yaml:"counterparty"`
	Receivable     string `yaml:"receivable"`      // accounts-receivable method for sales
	TransferMethod string `yaml:"transfer_method"` // settlement method, receivable to deposit
	Deposit        string `yaml:"deposit"`         // deposit method for expense entries
}

// Accounts holds the Yayoi account (科目) names for each entry kind.
type Accounts struct {
	Sales    string `yaml:"sales"`
	SalesFee string `yaml:"sales_fee"`
	Shipping string `yaml:"shipping"`
}

// MethodFile maps a settlement method batch key to a filename-safe slug.
type MethodFile struct {
	Method   string `yaml:"method"`
	Filename string `yaml:"filename"`
}

// MappingConfig is the YAML shape of an account-mapping file.
type MappingConfig struct {
	Regular  Profile      `yaml:"regular"`
	Shop     Profile      `yaml:"shop"`
	Accounts Accounts     `yaml:"accounts"`
	Methods  []MethodFile `yaml:"methods"`
}

// Mapper resolves channel profiles, account names, and batch filenames.
type Mapper struct {
	config       MappingConfig
	methodToFile map[string]string
}

// NewMapper loads a Mapper from a YAML account-mapping file.
func NewMapper(configPath string) (*Mapper, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file: %w", err)
	}

	var config MappingConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse mapping YAML: %w", err)
	}

	return newMapper(config), nil
}

// DefaultMapper returns a Mapper with the built-in Mercari account names,
// used when no mapping file is configured.
func DefaultMapper() *Mapper {
	return newMapper(MappingConfig{
		Regular: Profile{
			Counterparty:   "メルカリ",
			Receivable:     "売掛金（メルカリ）",
			TransferMethod: "売掛金（メルカリ）⇒その他の預金",
			Deposit:        "その他の預金",
		},
		Shop: Profile{
			Counterparty:   "メルカリSHOP",
			Receivable:     "売掛金（メルカリSHOP）",
			TransferMethod: "売掛金（メルカリSHOP）⇒その他の預金",
			Deposit:        "その他の預金",
		},
		Accounts: Accounts{
			Sales:    "売上",
			SalesFee: "支払手数料",
			Shipping: "荷造運賃",
		},
		Methods: []MethodFile{
			{Method: "売掛金（メルカリ）", Filename: "urikake_mercari"},
			{Method: "売掛金（メルカリ）⇒その他の預金", Filename: "furikae_mercari_to_yokin"},
			{Method: "その他の預金", Filename: "sonota_yokin"},
			{Method: "その他の預金_支払手数料", Filename: "sonota_yokin_tesuryo"},
			{Method: "その他の預金_荷造運賃", Filename: "sonota_yokin_soryo"},
			{Method: "売掛金（メルカリSHOP）", Filename: "urikake_mercari_shop"},
			{Method: "売掛金（メルカリSHOP）⇒その他の預金", Filename: "furikae_mercari_shop_to_yokin"},
			{Method: "売掛金（ヤフオク）", Filename: "urikake_yahoo"},
			{Method: "売掛金（ヤフオク）⇒その他の預金", Filename: "furikae_yahoo_to_yokin"},
		},
	})
}

func newMapper(config MappingConfig) *Mapper {
	m := &Mapper{
		config:       config,
		methodToFile: make(map[string]string, len(config.Methods)),
	}
	for _, mf := range config.Methods {
		m.methodToFile[mf.Method] = mf.Filename
	}
	return m
}

// Profile returns the account profile for the shop or regular channel.
func (m *Mapper) Profile(shop bool) Profile {
	if shop {
		return m.config.Shop
	}
	return m.config.Regular
}

// Accounts returns the configured account names.
func (m *Mapper) Accounts() Accounts {
	return m.config.Accounts
}

// FilenameForMethod converts a batch key to a filename-safe slug.
// Unknown methods collapse to "other".
func (m *Mapper) FilenameForMethod(method string) string {
	if name, ok := m.methodToFile[method]; ok {
		return name
	}
	return "other"
}
