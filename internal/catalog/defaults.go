package catalog

const defaultExplanation = "This clause contains important contract terms."

// Default returns the built-in catalog
func Default() *Catalog {
	c := &Catalog{
		ContractTypes: PatternSet{
			{Name: "employment", Keywords: []string{"employment", "salary", "employee", "job", "position", "work"}},
			{Name: "vendor", Keywords: []string{"vendor", "supplier", "goods", "delivery", "purchase"}},
			{Name: "lease", Keywords: []string{"lease", "rent", "property", "landlord", "tenant"}},
			{Name: "service", Keywords: []string{"service", "consulting", "agreement", "provide"}},
		},
		ClauseCategories: PatternSet{
			{Name: "payment", Keywords: []string{"payment", "pay", "fee", "salary", "compensation", "amount due"}},
			{Name: "termination", Keywords: []string{"terminate", "end", "cancel", "expiry", "dissolution"}},
			{Name: "liability", Keywords: []string{"liable", "liability", "responsibility", "damages", "loss"}},
			{Name: "confidentiality", Keywords: []string{"confidential", "non-disclosure", "proprietary"}},
			{Name: "intellectual_property", Keywords: []string{"copyright", "patent", "trademark", "ip rights", "intellectual property"}},
			{Name: "dispute_resolution", Keywords: []string{"arbitration", "mediation", "court", "jurisdiction"}},
			{Name: "force_majeure", Keywords: []string{"force majeure", "act of god", "unforeseeable"}},
			{Name: "warranty", Keywords: []string{"warranty", "guarantee", "assurance", "representation"}},
		},
		Relations: PatternSet{
			{Name: "obligations", Keywords: []string{"shall", "must", "will", "agrees to", "undertakes to"}},
			{Name: "rights", Keywords: []string{"may", "entitled to", "has the right", "can", "permitted to"}},
			{Name: "prohibitions", Keywords: []string{"shall not", "must not", "cannot", "prohibited from", "forbidden to"}},
		},
		SpecificRisks: PatternSet{
			{Name: "penalty_clauses", Keywords: []string{"liquidated damages", "penalty clause", "fine", "forfeiture"}},
			{Name: "indemnity_clauses", Keywords: []string{"indemnify", "hold harmless", "defend and indemnify"}},
			{Name: "unilateral_termination", Keywords: []string{"sole discretion", "unilateral termination", "terminate at will"}},
			{Name: "arbitration_jurisdiction", Keywords: []string{"arbitration", "jurisdiction", "governing law", "dispute resolution"}},
			{Name: "auto_renewal", Keywords: []string{"automatically renew", "auto-renewal", "evergreen clause"}},
			{Name: "non_compete_ip", Keywords: []string{"non-compete", "intellectual property transfer", "assignment of rights"}},
		},
		AmbiguityTerms:      []string{"reasonable", "appropriate", "satisfactory", "as needed", "from time to time"},
		HighSeverityTerms:   []string{"unlimited", "sole discretion", "irrevocable", "perpetual"},
		MediumSeverityTerms: []string{"penalty", "damages", "terminate", "breach"},
		Explanations: map[string]string{
			"payment":               "This clause defines when and how payments must be made.",
			"termination":           "This clause explains how the contract can be ended.",
			"liability":             "This clause determines who is responsible for damages or losses.",
			"confidentiality":       "This clause requires keeping certain information secret.",
			"intellectual_property": "This clause defines ownership of ideas and creations.",
			"dispute_resolution":    "This clause explains how disagreements will be resolved.",
			"force_majeure":         "This clause covers what happens during uncontrollable events.",
			"warranty":              "This clause provides guarantees about quality or performance.",
		},
		DefaultExplanation: defaultExplanation,
	}
	c.normalize()
	return c
}
