package validation

import "strconv"

// RuleSet is the declarative validation table of one entity.
type RuleSet struct {
	Entity string
	// RequiredOnCreate fields must be present and non-empty on create.
	RequiredOnCreate []string
	// NonEmptyIfPresent fields may be omitted but never sent empty on update.
	NonEmptyIfPresent []string
	// Media fields accept an uploaded file part in place of a string value.
	Media []string
	// Formats holds validator tags checked on non-empty values.
	Formats map[string]string
}

// Declared returns every field the entity accepts, required fields first.
func (r RuleSet) Declared() []string {
	n := len(r.RequiredOnCreate) + len(r.NonEmptyIfPresent)
	seen := make(map[string]bool, n)
	out := make([]string, 0, n)
	for _, list := range [][]string{r.RequiredOnCreate, r.NonEmptyIfPresent} {
		for _, f := range list {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	return out
}

func (r RuleSet) IsMedia(field string) bool {
	for _, m := range r.Media {
		if m == field {
			return true
		}
	}
	return false
}

func (r RuleSet) requiredOnCreate(field string) bool {
	for _, f := range r.RequiredOnCreate {
		if f == field {
			return true
		}
	}
	return false
}

// indexed expands ("KeyP", 3) into KeyP1, KeyP2, KeyP3.
func indexed(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = prefix + strconv.Itoa(i+1)
	}
	return out
}

func concat(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func tagAll(fields []string, tag string) map[string]string {
	m := make(map[string]string, len(fields))
	for _, f := range fields {
		m[f] = tag
	}
	return m
}

var CategoryRules = RuleSet{
	Entity:            "category",
	RequiredOnCreate:  concat([]string{"name", "description"}, indexed("KeyP", 3), []string{"Img"}),
	NonEmptyIfPresent: concat([]string{"name", "description"}, indexed("KeyP", 3), []string{"Img"}),
	Media:             []string{"Img"},
}

var SubcategoryRules = RuleSet{
	Entity:            "subcategory",
	RequiredOnCreate:  concat([]string{"name", "Dtext"}, indexed("KeyP", 2), []string{"Img", "categoryId"}),
	NonEmptyIfPresent: concat([]string{"name", "Dtext"}, indexed("KeyP", 2), []string{"Img", "categoryId"}),
	Media:             []string{"Img"},
	Formats:           map[string]string{"categoryId": "mongodb"},
}

var ProductRules = RuleSet{
	Entity: "product",
	RequiredOnCreate: concat(
		[]string{"name", "description"},
		indexed("Img", 3),
		indexed("F", 6),
		indexed("S", 10),
		indexed("A", 6),
	),
	NonEmptyIfPresent: concat(
		[]string{"name", "description"},
		indexed("Img", 3),
		indexed("F", 6),
		indexed("S", 10),
		indexed("A", 6),
		[]string{"categoryId", "subcategoryId"},
	),
	Media:   indexed("Img", 3),
	Formats: map[string]string{"categoryId": "mongodb", "subcategoryId": "mongodb"},
}

var FooterRules = RuleSet{
	Entity:            "footer",
	RequiredOnCreate:  []string{"copyrightText", "contactEmail", "contactPhone"},
	NonEmptyIfPresent: concat([]string{"copyrightText", "contactEmail", "contactPhone", "officeAddress"}, indexed("Social", 7)),
	Formats: func() map[string]string {
		m := tagAll(indexed("Social", 7), "url")
		m["contactEmail"] = "email"
		return m
	}(),
}

var FactoryAddressRules = RuleSet{
	Entity:            "factory address",
	RequiredOnCreate:  []string{"heading", "description", "mapLink"},
	NonEmptyIfPresent: []string{"heading", "description", "mapLink", "footerId"},
	Formats:           map[string]string{"mapLink": "url", "footerId": "mongodb"},
}
