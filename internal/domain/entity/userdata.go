package entity

// Logical field names understood by the field-mapping prompt.
const (
	FieldUsername    = "username"
	FieldPassword    = "password"
	FieldStudentYear = "student_year"
	FieldDepartment  = "department"

	// FieldSubmit is reserved in a FieldMapping for the submit control.
	FieldSubmit = "submit"
)

// DefaultFieldOrder is the order in which configured fields are filled.
var DefaultFieldOrder = []string{FieldUsername, FieldPassword, FieldStudentYear, FieldDepartment}

type UserField struct {
	Key   string
	Value string
}

// UserData is an immutable, ordered set of non-empty field values.
type UserData struct {
	fields []UserField
	index  map[string]int
}

// NewUserData keeps only entries with a non-empty value, preserving order.
// Duplicate keys keep their first occurrence.
func NewUserData(fields ...UserField) UserData {
	ud := UserData{index: make(map[string]int, len(fields))}
	for _, f := range fields {
		if f.Key == "" || f.Value == "" {
			continue
		}
		if _, dup := ud.index[f.Key]; dup {
			continue
		}
		ud.index[f.Key] = len(ud.fields)
		ud.fields = append(ud.fields, f)
	}
	return ud
}

func (u UserData) Len() int {
	return len(u.fields)
}

func (u UserData) Get(key string) (string, bool) {
	i, ok := u.index[key]
	if !ok {
		return "", false
	}
	return u.fields[i].Value, true
}

func (u UserData) Keys() []string {
	keys := make([]string, len(u.fields))
	for i, f := range u.fields {
		keys[i] = f.Key
	}
	return keys
}

// Fields returns a copy of the entries in order.
func (u UserData) Fields() []UserField {
	out := make([]UserField, len(u.fields))
	copy(out, u.fields)
	return out
}
