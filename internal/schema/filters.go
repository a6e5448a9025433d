package schema

// StringFilter filters items by a string property. Only one comparison
// should be set per filter; use And/Or to combine multiple comparisons.
type StringFilter struct {
	Equals      *string
	NotEquals   *string
	Contains    *string
	NotContains *string
	BeginsWith  *string
	EndsWith    *string
	Regex       *string
	In          []string
	And         *StringFilter
	Or          *StringFilter
}

// GraphQLMap renders the filter as GraphQL variables, omitting unset
// comparisons.
func (f *StringFilter) GraphQLMap() map[string]any {
	m := make(map[string]any)
	if f.Equals != nil {
		m["equals"] = *f.Equals
	}
	if f.NotEquals != nil {
		m["notEquals"] = *f.NotEquals
	}
	if f.Contains != nil {
		m["contains"] = *f.Contains
	}
	if f.NotContains != nil {
		m["notContains"] = *f.NotContains
	}
	if f.BeginsWith != nil {
		m["beginsWith"] = *f.BeginsWith
	}
	if f.EndsWith != nil {
		m["endsWith"] = *f.EndsWith
	}
	if f.Regex != nil {
		m["regex"] = *f.Regex
	}
	if f.In != nil {
		m["in"] = f.In
	}
	if f.And != nil {
		m["and"] = f.And.GraphQLMap()
	}
	if f.Or != nil {
		m["or"] = f.Or.GraphQLMap()
	}
	return m
}

// IntFilter filters items by an integer property.
type IntFilter struct {
	Equals            *int
	NotEquals         *int
	LessThan          *int
	LessThanEquals    *int
	GreaterThan       *int
	GreaterThanEquals *int
	In                []int
	And               *IntFilter
	Or                *IntFilter
}

// GraphQLMap renders the filter as GraphQL variables, omitting unset
// comparisons.
func (f *IntFilter) GraphQLMap() map[string]any {
	m := make(map[string]any)
	if f.Equals != nil {
		m["equals"] = *f.Equals
	}
	if f.NotEquals != nil {
		m["notEquals"] = *f.NotEquals
	}
	if f.LessThan != nil {
		m["lessThan"] = *f.LessThan
	}
	if f.LessThanEquals != nil {
		m["lessThanEquals"] = *f.LessThanEquals
	}
	if f.GreaterThan != nil {
		m["greaterThan"] = *f.GreaterThan
	}
	if f.GreaterThanEquals != nil {
		m["greaterThanEquals"] = *f.GreaterThanEquals
	}
	if f.In != nil {
		m["in"] = f.In
	}
	if f.And != nil {
		m["and"] = f.And.GraphQLMap()
	}
	if f.Or != nil {
		m["or"] = f.Or.GraphQLMap()
	}
	return m
}

// UUIDFilter filters items by a unique-identifier property.
type UUIDFilter struct {
	Equals    *string
	NotEquals *string
	In        []string
	And       *UUIDFilter
	Or        *UUIDFilter
}

// GraphQLMap renders the filter as GraphQL variables, omitting unset
// comparisons.
func (f *UUIDFilter) GraphQLMap() map[string]any {
	m := make(map[string]any)
	if f.Equals != nil {
		m["equals"] = *f.Equals
	}
	if f.NotEquals != nil {
		m["notEquals"] = *f.NotEquals
	}
	if f.In != nil {
		m["in"] = f.In
	}
	if f.And != nil {
		m["and"] = f.And.GraphQLMap()
	}
	if f.Or != nil {
		m["or"] = f.Or.GraphQLMap()
	}
	return m
}
