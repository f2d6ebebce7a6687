package taxonomy

// Subject is one seeded law subject with its topic taxonomy.
type Subject struct {
	Key         string
	DisplayName string
	Topics      []Topic
}

// Topic is a (key, display name) pair within a subject.
type Topic struct {
	Key         string
	DisplayName string
}

// Subjects is the bootstrap taxonomy. Mastery rows are seeded from it on
// startup; seeding is idempotent.
var Subjects = []Subject{
	{
		Key:         "con_law",
		DisplayName: "Constitutional Law",
		Topics: []Topic{
			{"judicial_review", "Judicial Review"},
			{"standing", "Standing"},
			{"political_question", "Political Question Doctrine"},
			{"commerce_clause", "Commerce Clause"},
			{"spending_power", "Spending Power"},
			{"necessary_proper", "Necessary & Proper Clause"},
			{"preemption", "Preemption"},
			{"dormant_commerce", "Dormant Commerce Clause"},
			{"due_process_substantive", "Substantive Due Process"},
			{"due_process_procedural", "Procedural Due Process"},
			{"equal_protection", "Equal Protection"},
			{"first_amendment_speech", "First Amendment - Speech"},
			{"first_amendment_religion", "First Amendment - Religion"},
			{"state_action", "State Action Doctrine"},
			{"takings", "Takings Clause"},
			{"privileges_immunities", "Privileges & Immunities"},
		},
	},
	{
		Key:         "contracts",
		DisplayName: "Contracts",
		Topics: []Topic{
			{"offer", "Offer"},
			{"acceptance", "Acceptance"},
			{"consideration", "Consideration"},
			{"promissory_estoppel", "Promissory Estoppel"},
			{"statute_of_frauds", "Statute of Frauds"},
			{"parol_evidence", "Parol Evidence Rule"},
			{"ucc_vs_common_law", "UCC vs Common Law"},
			{"conditions", "Conditions"},
			{"breach", "Breach"},
			{"anticipatory_repudiation", "Anticipatory Repudiation"},
			{"remedies_damages", "Remedies & Damages"},
			{"specific_performance", "Specific Performance"},
			{"third_party_beneficiaries", "Third-Party Beneficiaries"},
			{"assignment_delegation", "Assignment & Delegation"},
			{"impossibility_impracticability", "Impossibility & Impracticability"},
			{"unconscionability", "Unconscionability"},
		},
	},
	{
		Key:         "torts",
		DisplayName: "Torts",
		Topics: []Topic{
			{"intentional_torts", "Intentional Torts"},
			{"battery", "Battery"},
			{"assault", "Assault"},
			{"false_imprisonment", "False Imprisonment"},
			{"iied", "IIED"},
			{"trespass", "Trespass"},
			{"conversion", "Conversion"},
			{"negligence_duty", "Negligence - Duty"},
			{"negligence_breach", "Negligence - Breach"},
			{"negligence_causation", "Negligence - Causation"},
			{"negligence_damages", "Negligence - Damages"},
			{"res_ipsa", "Res Ipsa Loquitur"},
			{"negligence_per_se", "Negligence Per Se"},
			{"comparative_fault", "Comparative Fault"},
			{"strict_liability", "Strict Liability"},
			{"products_liability", "Products Liability"},
			{"defamation", "Defamation"},
			{"privacy_torts", "Privacy Torts"},
			{"vicarious_liability", "Vicarious Liability"},
		},
	},
	{
		Key:         "crim_law",
		DisplayName: "Criminal Law",
		Topics: []Topic{
			{"actus_reus", "Actus Reus"},
			{"mens_rea", "Mens Rea"},
			{"homicide", "Homicide"},
			{"murder", "Murder"},
			{"manslaughter", "Manslaughter"},
			{"felony_murder", "Felony Murder"},
			{"theft_crimes", "Theft Crimes"},
			{"robbery_burglary", "Robbery & Burglary"},
			{"inchoate_crimes", "Inchoate Crimes (Attempt, Conspiracy, Solicitation)"},
			{"accomplice_liability", "Accomplice Liability"},
			{"self_defense", "Self-Defense"},
			{"insanity", "Insanity Defense"},
			{"intoxication", "Intoxication"},
			{"entrapment", "Entrapment"},
		},
	},
	{
		Key:         "civ_pro",
		DisplayName: "Civil Procedure",
		Topics: []Topic{
			{"personal_jurisdiction", "Personal Jurisdiction"},
			{"subject_matter_jurisdiction", "Subject Matter Jurisdiction"},
			{"diversity_jurisdiction", "Diversity Jurisdiction"},
			{"federal_question", "Federal Question Jurisdiction"},
			{"removal", "Removal"},
			{"venue", "Venue"},
			{"erie_doctrine", "Erie Doctrine"},
			{"pleading_standards", "Pleading Standards"},
			{"rule_12_motions", "Rule 12 Motions"},
			{"discovery", "Discovery"},
			{"summary_judgment", "Summary Judgment"},
			{"class_actions", "Class Actions"},
			{"joinder", "Joinder"},
			{"claim_issue_preclusion", "Claim & Issue Preclusion"},
		},
	},
	{
		Key:         "property",
		DisplayName: "Property",
		Topics: []Topic{
			{"estates_in_land", "Estates in Land"},
			{"future_interests", "Future Interests"},
			{"concurrent_ownership", "Concurrent Ownership"},
			{"landlord_tenant", "Landlord-Tenant"},
			{"easements", "Easements"},
			{"covenants_servitudes", "Covenants & Servitudes"},
			{"adverse_possession", "Adverse Possession"},
			{"recording_acts", "Recording Acts"},
			{"deeds_titles", "Deeds & Titles"},
			{"mortgages", "Mortgages"},
			{"zoning", "Zoning"},
		},
	},
	{
		Key:         "evidence",
		DisplayName: "Evidence",
		Topics: []Topic{
			{"relevance", "Relevance"},
			{"character_evidence", "Character Evidence"},
			{"hearsay", "Hearsay"},
			{"hearsay_exceptions", "Hearsay Exceptions"},
			{"confrontation_clause", "Confrontation Clause"},
			{"impeachment", "Impeachment"},
			{"privileges", "Privileges"},
			{"expert_testimony", "Expert Testimony"},
			{"authentication", "Authentication"},
			{"best_evidence", "Best Evidence Rule"},
		},
	},
}

// Find returns the subject for a key, or nil when unknown.
func Find(key string) *Subject {
	for i := range Subjects {
		if Subjects[i].Key == key {
			return &Subjects[i]
		}
	}
	return nil
}
