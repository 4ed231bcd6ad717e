package datagen

import "github.com/zorgbijjou/golang-fhir-models/fhir-models/fhir"

// Small vocabularies for synthetic resources. Codes are SNOMED CT.

var givenNames = []string{
	"Emma", "Liam", "Olivia", "Noah", "Sophia", "Lucas", "Mia", "Daan", "Julia", "Sem",
}

var familyNames = []string{
	"Jansen", "Smith", "de Vries", "Johnson", "Bakker", "Williams", "Visser", "Brown", "Meijer", "Davis",
}

var genders = []fhir.AdministrativeGender{
	fhir.AdministrativeGenderMale,
	fhir.AdministrativeGenderFemale,
}

type conditionCode struct {
	code    string
	display string
}

var conditionCodes = []conditionCode{
	{"38341003", "Hypertensive disorder"},
	{"44054006", "Diabetes mellitus type 2"},
	{"195967001", "Asthma"},
	{"13645005", "Chronic obstructive lung disease"},
	{"53741008", "Coronary arteriosclerosis"},
	{"35489007", "Depressive disorder"},
}
