// Package topics classifies a concern into fixed policy topics and derives the
// descriptive phrases and subject lines used in advocacy letters.
package topics

// Topic is a taxonomy key.
type Topic string

// Topic keys in declaration order. Declaration order is the tie-break order.
const (
	TopicClimate      Topic = "climate"
	TopicHealthcare   Topic = "healthcare"
	TopicHousing      Topic = "housing"
	TopicEducation    Topic = "education"
	TopicEconomy      Topic = "economy"
	TopicIndigenous   Topic = "indigenous"
	TopicGender       Topic = "gender"
	TopicImmigration  Topic = "immigration"
	TopicDisability   Topic = "disability"
	TopicMentalHealth Topic = "mental_health"
	TopicDefault      Topic = "default"
)

// Entry is one taxonomy entry: its keywords and the context paragraph used in
// the letter body.
type Entry struct {
	Topic    Topic
	Keywords []string
	Context  string
}

// taxonomy keywords are lowercase substrings. The default entry must stay last
// and carries no keywords.
var taxonomy = []Entry{
	{
		Topic: TopicClimate,
		Keywords: []string{
			"climate", "carbon", "emission", "renewable", "global warming", "fossil fuel",
			"net zero", "environment", "pollution", "bushfire", "drought",
		},
		Context: "Climate change is already affecting Australian communities through longer bushfire seasons, " +
			"more severe droughts and rising sea levels. Decisive action on emissions, investment in renewable " +
			"energy and protection of our natural environment will shape the country we leave to future generations.",
	},
	{
		Topic: TopicHealthcare,
		Keywords: []string{
			"health", "medicare", "hospital", "doctor", "nurse", "bulk bill", "medical",
			"pharmac", "aged care", "dental", "gp ",
		},
		Context: "Access to affordable healthcare is a cornerstone of a fair society. Many Australians now face " +
			"long waits for specialist care, rising out-of-pocket costs and declining bulk billing rates, " +
			"particularly in regional and outer suburban areas.",
	},
	{
		Topic: TopicHousing,
		Keywords: []string{
			"housing", "rent", "homeless", "mortgage", "afford", "landlord", "tenant",
			"first home", "home ownership", "property",
		},
		Context: "Housing affordability has become one of the defining challenges of our time. Rents have risen " +
			"far faster than wages, home ownership is out of reach for many younger Australians, and more " +
			"people than ever are at risk of homelessness.",
	},
	{
		Topic: TopicEducation,
		Keywords: []string{
			"education", "school", "universit", "teacher", "student", "tafe", "hecs",
			"childcare", "early learning", "apprentice",
		},
		Context: "A strong education system opens doors for every young Australian. Adequate funding for public " +
			"schools, accessible vocational training and fair university costs are essential to a productive " +
			"and equitable future.",
	},
	{
		Topic: TopicEconomy,
		Keywords: []string{
			"economy", "economic", "cost of living", "inflation", "wage", "job", "unemploy",
			"tax", "interest rate", "grocer", "price",
		},
		Context: "Households across the country are feeling the pressure of higher prices, rising interest rates " +
			"and stagnant real wages. Sound economic management must put the wellbeing of ordinary families " +
			"at its centre.",
	},
	{
		Topic: TopicIndigenous,
		Keywords: []string{
			"indigenous", "aboriginal", "first nations", "torres strait", "closing the gap",
			"treaty", "voice to parliament", "reconciliation",
		},
		Context: "Aboriginal and Torres Strait Islander peoples continue to experience unacceptable gaps in health, " +
			"education and justice outcomes. Meaningful progress requires listening to First Nations communities " +
			"and supporting community-led solutions.",
	},
	{
		Topic: TopicGender,
		Keywords: []string{
			"gender", "women", "equal pay", "pay gap", "domestic violence", "family violence",
			"sexual harassment", "violence", "misogyn",
		},
		Context: "Gender inequality remains a serious problem in Australia, from the persistent gender pay gap to " +
			"the unacceptable rates of family and domestic violence. Every person deserves to be safe and to be " +
			"treated equally at work and at home.",
	},
	{
		Topic: TopicImmigration,
		Keywords: []string{
			"immigra", "migrant", "refugee", "asylum", "visa", "multicultural", "citizenship",
		},
		Context: "Australia is a nation built by migrants, and our immigration and refugee policies say a great deal " +
			"about who we are. A fair, efficient and humane system benefits both new arrivals and the wider community.",
	},
	{
		Topic: TopicDisability,
		Keywords: []string{
			"disability", "disabled", "ndis", "accessib", "carer", "wheelchair",
		},
		Context: "People with disability and their carers rely on services that are reliable, accessible and properly " +
			"funded. Changes to the NDIS and related supports have a direct effect on the independence and dignity " +
			"of thousands of Australians.",
	},
	{
		Topic: TopicMentalHealth,
		Keywords: []string{
			"mental", "mental health", "anxiety", "depression", "suicide", "wellbeing", "psycholog",
		},
		Context: "Mental illness touches almost every Australian family. Too many people still struggle to find timely, " +
			"affordable support, and early intervention services remain stretched well beyond capacity.",
	},
	{
		Topic: TopicDefault,
		Context: "This issue is of real importance to people in our community, and I believe it deserves careful attention " +
			"from those who represent us in Parliament.",
	},
}

func lookup(topic Topic) (Entry, bool) {
	for _, e := range taxonomy {
		if e.Topic == topic {
			return e, true
		}
	}
	return Entry{}, false
}
