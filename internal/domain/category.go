package domain

// Category is one label from the closed transaction taxonomy.
type Category string

const (
	CategoryOffice         Category = "Office"
	CategoryTechnology     Category = "Technology"
	CategoryTravel         Category = "Travel"
	CategoryMeals          Category = "Meals"
	CategoryMarketing      Category = "Marketing"
	CategoryUtilities      Category = "Utilities"
	CategoryEducation      Category = "Education"
	CategoryEntertainment  Category = "Entertainment"
	CategoryTransportation Category = "Transportation"
	CategoryInsurance      Category = "Insurance"
	CategoryProfessional   Category = "Professional"
	CategoryRent           Category = "Rent"
	CategorySecurity       Category = "Security"
	CategoryMaintenance    Category = "Maintenance"
	CategoryTaxes          Category = "Taxes"
	CategoryPayroll        Category = "Payroll"
	CategoryOther          Category = "Other"

	// CategoryUncategorized marks records created without a category,
	// e.g. bulk CSV imports. It is not a classifier output.
	CategoryUncategorized Category = "Uncategorized"
)

// Categories is the closed set of classifier outputs, in presentation order.
var Categories = []Category{
	CategoryOffice,
	CategoryTechnology,
	CategoryTravel,
	CategoryMeals,
	CategoryMarketing,
	CategoryUtilities,
	CategoryEducation,
	CategoryEntertainment,
	CategoryTransportation,
	CategoryInsurance,
	CategoryProfessional,
	CategoryRent,
	CategorySecurity,
	CategoryMaintenance,
	CategoryTaxes,
	CategoryPayroll,
	CategoryOther,
}

var categorySet = func() map[Category]bool {
	m := make(map[Category]bool, len(Categories))
	for _, c := range Categories {
		m[c] = true
	}
	return m
}()

// ParseCategory matches s against the closed category set. The match is
// exact: the classifier prompt asks for the category name verbatim, and
// anything else is treated as out of set.
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	if categorySet[c] {
		return c, true
	}
	return CategoryOther, false
}
