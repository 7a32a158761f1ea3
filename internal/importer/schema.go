package importer

import (
	"fmt"
	"strings"
)

// FieldSpec is the static schema for one column of one entity kind.
type FieldSpec struct {
	// Name is the machine field name used as the ImportRecord map key.
	Name string `json:"name"`
	// Label is the spreadsheet header and the prefix of every error
	// message for this field.
	Label    string `json:"label"`
	Required bool   `json:"required"`
	// IdentityKey marks fields that participate in duplicate detection.
	// An edit to such a field triggers a full re-scan of its key across
	// the batch; edits to other fields stay local to the cell.
	IdentityKey bool `json:"identity_key"`

	Checks []CheckFunc `json:"-"`
}

// IdentityKey is a field or field-combination whose value must be unique
// within a batch and against persisted records.
type IdentityKey struct {
	Name            string
	Label           string
	Fields          []string
	CaseInsensitive bool
}

// ValueOf derives the normalized key value for a record. A row where any
// constituent field is absent or blank yields "" and is exempt from
// duplicate checking (it may still fail the required check independently).
func (k IdentityKey) ValueOf(rec ImportRecord) string {
	parts := make([]string, 0, len(k.Fields))
	for _, f := range k.Fields {
		v, ok := rec.Get(f)
		if !ok || strings.TrimSpace(v) == "" {
			return ""
		}
		parts = append(parts, strings.TrimSpace(v))
	}
	return k.normalize(strings.Join(parts, "\x1f"))
}

// ValueFromMap derives the key value from a persisted record's field map,
// using the same normalization as ValueOf.
func (k IdentityKey) ValueFromMap(fields map[string]string) string {
	parts := make([]string, 0, len(k.Fields))
	for _, f := range k.Fields {
		v := strings.TrimSpace(fields[f])
		if v == "" {
			return ""
		}
		parts = append(parts, v)
	}
	return k.normalize(strings.Join(parts, "\x1f"))
}

func (k IdentityKey) normalize(v string) string {
	if k.CaseInsensitive {
		return strings.ToLower(v)
	}
	return v
}

func (k IdentityKey) contains(field string) bool {
	for _, f := range k.Fields {
		if f == field {
			return true
		}
	}
	return false
}

// Schema is the ordered import schema for one entity kind.
type Schema struct {
	Kind   string
	Fields []FieldSpec
	Keys   []IdentityKey
}

// Field looks up a FieldSpec by name.
func (s Schema) Field(name string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// KeysFor returns the identity keys the given field participates in.
func (s Schema) KeysFor(field string) []IdentityKey {
	var keys []IdentityKey
	for _, k := range s.Keys {
		if k.contains(field) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Headers returns the column labels in schema order.
func (s Schema) Headers() []string {
	headers := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		headers[i] = f.Label
	}
	return headers
}

// ClassSchema covers academic class sections. Grade plus section is the
// identity key; two rows describing the same section are duplicates.
func ClassSchema() Schema {
	return Schema{
		Kind: "class",
		Fields: []FieldSpec{
			{Name: "grade", Label: "Grade", Required: true, IdentityKey: true, Checks: []CheckFunc{NumericString}},
			{Name: "section", Label: "Section", Required: true, IdentityKey: true, Checks: []CheckFunc{EnumMember("A", "B", "C", "D", "E", "F")}},
			{Name: "class_teacher", Label: "Class Teacher", Required: false},
			{Name: "subjects", Label: "Subjects", Required: true, Checks: []CheckFunc{NonEmptyCommaList}},
		},
		Keys: []IdentityKey{
			{Name: "grade_section", Label: "Class", Fields: []string{"grade", "section"}, CaseInsensitive: true},
		},
	}
}

// TeacherSchema covers teaching staff. Employee ID, mobile number and email
// must each be unique on their own.
func TeacherSchema() Schema {
	return Schema{
		Kind: "teacher",
		Fields: []FieldSpec{
			{Name: "name", Label: "Name", Required: true},
			{Name: "employee_id", Label: "Employee ID", Required: true, IdentityKey: true},
			{Name: "contact_number", Label: "Mobile number", Required: true, IdentityKey: true, Checks: []CheckFunc{ExactDigits(10)}},
			{Name: "email", Label: "Email", Required: true, IdentityKey: true, Checks: []CheckFunc{EmailFormat}},
			{Name: "subjects", Label: "Subjects", Required: true, Checks: []CheckFunc{NonEmptyCommaList}},
			{Name: "qualification", Label: "Qualification", Required: false},
		},
		Keys: []IdentityKey{
			{Name: "employee_id", Label: "Employee ID", Fields: []string{"employee_id"}, CaseInsensitive: true},
			{Name: "contact_number", Label: "Mobile number", Fields: []string{"contact_number"}},
			{Name: "email", Label: "Email", Fields: []string{"email"}, CaseInsensitive: true},
		},
	}
}

// StudentSchema covers enrolled students, keyed by admission number.
func StudentSchema() Schema {
	return Schema{
		Kind: "student",
		Fields: []FieldSpec{
			{Name: "name", Label: "Name", Required: true},
			{Name: "admission_number", Label: "Admission number", Required: true, IdentityKey: true, Checks: []CheckFunc{NumericString}},
			{Name: "grade", Label: "Grade", Required: true, Checks: []CheckFunc{NumericString}},
			{Name: "section", Label: "Section", Required: true, Checks: []CheckFunc{EnumMember("A", "B", "C", "D", "E", "F")}},
			{Name: "guardian_name", Label: "Guardian Name", Required: false},
			{Name: "guardian_contact", Label: "Guardian contact", Required: true, Checks: []CheckFunc{ExactDigits(10)}},
			{Name: "national_id", Label: "National ID", Required: false, Checks: []CheckFunc{ExactDigits(12)}},
			{Name: "email", Label: "Email", Required: false, Checks: []CheckFunc{EmailFormat}},
		},
		Keys: []IdentityKey{
			{Name: "admission_number", Label: "Admission number", Fields: []string{"admission_number"}},
		},
	}
}

// SchemaForKind resolves an entity kind from a URL segment.
func SchemaForKind(kind string) (Schema, error) {
	switch kind {
	case "class", "classes":
		return ClassSchema(), nil
	case "teacher", "teachers":
		return TeacherSchema(), nil
	case "student", "students":
		return StudentSchema(), nil
	default:
		return Schema{}, fmt.Errorf("unknown import kind %q", kind)
	}
}
