package recommend

// Fixed lookup tables driving the scoring functions. These are never
// mutated after init; treat them as configuration.

type bucket int

const (
	bucketTops bucket = iota
	bucketBottoms
	bucketShoes
	bucketOuterwear
	bucketDresses
	bucketAccessories
)

// typeBuckets maps a clothing type to its selection bucket. Types not
// listed here belong to no bucket and are never picked by the composer.
var typeBuckets = map[string]bucket{
	"shirt":    bucketTops,
	"t-shirt":  bucketTops,
	"blouse":   bucketTops,
	"sweater":  bucketTops,
	"tank_top": bucketTops,

	"pants":  bucketBottoms,
	"jeans":  bucketBottoms,
	"shorts": bucketBottoms,
	"skirt":  bucketBottoms,

	"shoes": bucketShoes,

	"jacket":   bucketOuterwear,
	"coat":     bucketOuterwear,
	"blazer":   bucketOuterwear,
	"cardigan": bucketOuterwear,

	"dress": bucketDresses,

	"accessories": bucketAccessories,
	"scarf":       bucketAccessories,
	"bag":         bucketAccessories,
	"belt":        bucketAccessories,
}

// colorHarmonyGroups are sets of colors that pair well together. A color
// may appear in more than one group (brown is both warm and earth).
var colorHarmonyGroups = map[string][]string{
	"neutral": {"black", "white", "grey", "gray", "beige", "cream", "navy"},
	"warm":    {"red", "orange", "yellow", "pink", "burgundy", "brown"},
	"cool":    {"blue", "green", "purple", "turquoise", "teal"},
	"earth":   {"brown", "tan", "khaki", "olive", "beige"},
}

// weatherKeywords lists the type/tag keywords appropriate per band.
var weatherKeywords = map[string][]string{
	"hot":  {"shorts", "tank_top", "t-shirt", "dress", "sandals", "light_fabric"},
	"warm": {"jeans", "t-shirt", "shirt", "sneakers", "dress"},
	"cool": {"jeans", "sweater", "jacket", "boots", "long_sleeve"},
	"cold": {"coat", "sweater", "boots", "scarf", "thick_fabric", "layering"},
}

// eventStyles maps an event key to the style tags that fit it.
var eventStyles = map[string][]string{
	"work":    {"formal", "business_casual", "professional"},
	"casual":  {"casual", "comfortable", "everyday"},
	"formal":  {"formal", "dress_up", "elegant", "sophisticated"},
	"party":   {"trendy", "stylish", "fun", "colorful"},
	"outdoor": {"casual", "comfortable", "practical", "layering"},
	"date":    {"stylish", "attractive", "confident", "nice"},
	"workout": {"activewear", "comfortable", "breathable"},
}

// outerwearConditions trigger an outerwear piece regardless of temperature.
var outerwearConditions = map[string]bool{
	"rainy": true,
	"snowy": true,
	"windy": true,
}

// weatherBand maps a temperature to its band. 25.0 itself is "warm" and
// 15.0 is "cool"; the upper bound of each band is exclusive.
func weatherBand(temp float64) string {
	switch {
	case temp > 25:
		return "hot"
	case temp > 15:
		return "warm"
	case temp > 5:
		return "cool"
	default:
		return "cold"
	}
}
