package coding

const SNOMEDCTSystem = "http://snomed.info/sct"
const ActCodeSystem = "http://terminology.hl7.org/CodeSystem/v3-ActCode"
const ConditionClinicalSystem = "http://terminology.hl7.org/CodeSystem/condition-clinical"
