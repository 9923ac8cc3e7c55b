package model

// Category codes form the closed vocabulary shared by transactions and the
// summary. Codes are lowercase, accent-free identifiers; the service falls
// back to CategoryOther when it cannot classify a record.
const (
	CategoryFood      = "alimentacao"
	CategoryTransport = "transporte"
	CategoryHousing   = "moradia"
	CategoryLeisure   = "lazer"
	CategoryHealth    = "saude"
	CategoryShopping  = "compras"
	CategoryBills     = "contas"
	CategoryTransfer  = "transferencia"
	CategoryIncome    = "renda"
	CategoryEducation = "educacao"
	CategoryOther     = "outros"
)

// FilterAll is the sentinel category filter that passes every record.
const FilterAll = "all"

var categoryNames = map[string]string{
	CategoryFood:      "Alimentação",
	CategoryTransport: "Transporte",
	CategoryHousing:   "Moradia",
	CategoryLeisure:   "Lazer",
	CategoryHealth:    "Saúde",
	CategoryShopping:  "Compras",
	CategoryBills:     "Contas",
	CategoryTransfer:  "Transferência",
	CategoryIncome:    "Renda",
	CategoryEducation: "Educação",
	CategoryOther:     "Outros",
}

// KnownCategory reports whether code belongs to the closed vocabulary.
func KnownCategory(code string) bool {
	_, ok := categoryNames[code]
	return ok
}

// CategoryDisplayName resolves a category code to its display name. Codes
// outside the vocabulary render as the raw code so a newer server never
// breaks an older client.
func CategoryDisplayName(code string) string {
	if name, ok := categoryNames[code]; ok {
		return name
	}
	return code
}
