package wiki

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed data/zoomrx_wiki.yaml
var defaultData []byte

// KnowledgeBase is the static product and company knowledge the wiki
// capability answers from.
type KnowledgeBase struct {
	GeneralInfo       GeneralInfo       `yaml:"general_info"`
	ParticipationInfo ParticipationInfo `yaml:"participation_info"`
	Products          []Product         `yaml:"products"`
}

// GeneralInfo holds company-level knowledge.
type GeneralInfo struct {
	AboutZoomRx       string          `yaml:"about_zoomrx"`
	CompanyMission    string          `yaml:"company_mission"`
	EarningsPotential string          `yaml:"earnings_potential"`
	DataPrivacy       string          `yaml:"data_privacy"`
	ReferralProgram   ReferralProgram `yaml:"referral_program"`
}

// ReferralProgram describes the two referral earning tracks.
type ReferralProgram struct {
	HCPReferral     string `yaml:"hcp_referral"`
	PatientReferral string `yaml:"patient_referral"`
}

// ParticipationInfo holds panelist-facing logistics.
type ParticipationInfo struct {
	Eligibility    string `yaml:"eligibility"`
	TimeCommitment string `yaml:"time_commitment"`
	PaymentMethods string `yaml:"payment_methods"`
}

// Product is one ZoomRx offering. Products keep their file order so
// listings render deterministically.
type Product struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Benefits    []string `yaml:"benefits"`
	HowToStart  string   `yaml:"how_to_start"`
	Earnings    string   `yaml:"earnings"`
	FAQs        []FAQ    `yaml:"faqs"`
}

// FAQ is one question and answer pair for a product.
type FAQ struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

// Product looks a product up by ID. nil when absent.
func (kb *KnowledgeBase) Product(id string) *Product {
	for i := range kb.Products {
		if kb.Products[i].ID == id {
			return &kb.Products[i]
		}
	}
	return nil
}

// LoadDefault parses the embedded knowledge base.
func LoadDefault() (*KnowledgeBase, error) {
	return parse(defaultData)
}

// LoadFile parses a knowledge base from a YAML file, for deployments
// that maintain their own copy.
func LoadFile(path string) (*KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading wiki data: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*KnowledgeBase, error) {
	var kb KnowledgeBase
	if err := yaml.Unmarshal(data, &kb); err != nil {
		return nil, fmt.Errorf("parsing wiki data: %w", err)
	}
	if len(kb.Products) == 0 {
		return nil, fmt.Errorf("wiki data contains no products")
	}
	return &kb, nil
}
