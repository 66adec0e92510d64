package templates

// Default returns the built-in registry keyed by the classifier's contract types
func Default() *Registry {
	r, err := NewRegistry(builtin()...)
	if err != nil {
		panic(err) // built-in data is static
	}
	return r
}

func builtin() []Template {
	return []Template{
		{
			Type:  "service",
			Title: "Service Agreement Template",
			Preamble: []Section{
				{Name: "parties", Text: "This agreement is between [CLIENT_NAME] and [SERVICE_PROVIDER]."},
				{Name: "scope", Text: "Services to be provided: [DETAILED_SCOPE]."},
				{Name: "timeline", Text: "Project duration: [START_DATE] to [END_DATE]."},
			},
			Sections: []Section{
				{Name: "payment", Text: "Payment terms: [AMOUNT] due within [DAYS] days of invoice."},
				{Name: "termination", Text: "Either party may terminate with [NOTICE_PERIOD] days written notice."},
				{Name: "liability", Text: "Liability is limited to the contract value."},
				{Name: "intellectual_property", Text: "Client retains ownership of all deliverables."},
				{Name: "confidentiality", Text: "Both parties agree to maintain confidentiality."},
			},
			RiskMitigation: []string{
				"Clear scope definition prevents scope creep",
				"Limited liability clause protects both parties",
				"Mutual termination clause allows flexibility",
			},
		},
		{
			Type:  "employment",
			Title: "Employment Agreement Template",
			Preamble: []Section{
				{Name: "parties", Text: "Employment agreement between [COMPANY_NAME] and [EMPLOYEE_NAME]."},
				{Name: "position", Text: "Position: [JOB_TITLE] reporting to [MANAGER]."},
				{Name: "probation", Text: "Probation period: [MONTHS] months."},
			},
			Sections: []Section{
				{Name: "payment", Text: "Salary: [AMOUNT] per [PERIOD] plus benefits."},
				{Name: "termination", Text: "Termination with [NOTICE_PERIOD] notice or payment in lieu."},
				{Name: "confidentiality", Text: "Employee agrees to maintain company confidentiality."},
				{Name: "intellectual_property", Text: "Work product created during employment is owned by [COMPANY_NAME]."},
			},
			RiskMitigation: []string{
				"Clear job description prevents disputes",
				"Fixed probation period allows assessment",
				"Bounded non-compete protects the business without being excessive",
			},
		},
		{
			Type:  "vendor",
			Title: "Vendor/Supplier Agreement Template",
			Preamble: []Section{
				{Name: "parties", Text: "Agreement between [BUYER_NAME] and [VENDOR_NAME]."},
				{Name: "products", Text: "Products/Services: [DETAILED_DESCRIPTION]."},
				{Name: "delivery", Text: "Delivery terms: [TIMELINE] to [LOCATION]."},
			},
			Sections: []Section{
				{Name: "payment", Text: "Payment: [TERMS] with [LATE_FEE] for delays."},
				{Name: "warranty", Text: "Warranty: [DURATION] for defects."},
				{Name: "liability", Text: "Vendor liability is capped at [LIABILITY_CAP]."},
				{Name: "force_majeure", Text: "Neither party is liable for delays caused by unforeseeable events."},
			},
			RiskMitigation: []string{
				"Clear specifications prevent quality disputes",
				"Defined delivery terms ensure timely supply",
				"Warranty clause protects against defects",
			},
		},
		{
			Type:  "lease",
			Title: "Lease Agreement Template",
			Preamble: []Section{
				{Name: "parties", Text: "Lease between [LANDLORD_NAME] and [TENANT_NAME]."},
				{Name: "premises", Text: "Premises: [PROPERTY_ADDRESS]."},
				{Name: "term", Text: "Lease term: [START_DATE] to [END_DATE]."},
			},
			Sections: []Section{
				{Name: "payment", Text: "Rent: [AMOUNT] payable on day [DUE_DAY] of each month."},
				{Name: "termination", Text: "Either party may terminate with [NOTICE_PERIOD] days written notice."},
				{Name: "liability", Text: "Tenant is responsible for damage beyond normal wear and tear."},
				{Name: "dispute_resolution", Text: "Disputes are resolved by mediation in [JURISDICTION]."},
			},
			RiskMitigation: []string{
				"Fixed rent schedule avoids payment disputes",
				"Written notice period protects both parties",
				"Mediation keeps disputes out of court",
			},
		},
	}
}
