package plan

// Impact qualifies how much an action can move a category's emissions.
type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// Feasibility qualifies how hard an action is to put in place.
type Feasibility string

const (
	FeasibilityEasy   Feasibility = "easy"
	FeasibilityMedium Feasibility = "medium"
	FeasibilityHard   Feasibility = "hard"
)

// Template is one reusable reduction action for a category.
type Template struct {
	Title            string
	Description      string
	Impact           Impact
	Feasibility      Feasibility
	ReductionPercent float64
}

// actionTemplates maps emission category -> language -> templates.
// A ReductionPercent of 0 marks compensation or diagnostic actions
// that do not reduce emissions directly.
var actionTemplates = map[string]map[string][]Template{
	"voyages_aeriens": {
		LangFR: {
			{
				Title:            "Privilégier le train pour les trajets < 4h",
				Description:      "Remplacer les vols courts par le train lorsque possible. Le train émet jusqu'à 30 fois moins de CO2 que l'avion.",
				Impact:           ImpactHigh,
				Feasibility:      FeasibilityMedium,
				ReductionPercent: 60,
			},
			{
				Title:            "Mettre en place une politique de visioconférence",
				Description:      "Encourager les réunions virtuelles pour réduire les déplacements professionnels non essentiels.",
				Impact:           ImpactHigh,
				Feasibility:      FeasibilityEasy,
				ReductionPercent: 40,
			},
			{
				Title:            "Compenser les vols incompressibles",
				Description:      "Investir dans des projets de compensation carbone certifiés pour les vols nécessaires.",
				Impact:           ImpactMedium,
				Feasibility:      FeasibilityEasy,
				ReductionPercent: 0,
			},
		},
		LangEN: {
			{
				Title:            "Prioritize train for trips < 4h",
				Description:      "Replace short flights with train when possible. Trains emit up to 30 times less CO2 than planes.",
				Impact:           ImpactHigh,
				Feasibility:      FeasibilityMedium,
				ReductionPercent: 60,
			},
			{
				Title:            "Implement a video conferencing policy",
				Description:      "Encourage virtual meetings to reduce non-essential business travel.",
				Impact:           ImpactHigh,
				Feasibility:      FeasibilityEasy,
				ReductionPercent: 40,
			},
			{
				Title:            "Offset unavoidable flights",
				Description:      "Invest in certified carbon offset projects for necessary flights.",
				Impact:           ImpactMedium,
				Feasibility:      FeasibilityEasy,
				ReductionPercent: 0,
			},
		},
	},
	"transport_routier": {
		LangFR: {
			{
				Title:            "Optimiser les tournées de livraison",
				Description:      "Utiliser des logiciels de route optimization pour réduire les kilomètres parcourus et la consommation de carburant.",
				Impact:           ImpactHigh,
				Feasibility:      FeasibilityMedium,
				ReductionPercent: 25,
			},
			{
				Title:            "Transition vers véhicules électriques",
				Description:      "Remplacer progressivement la flotte par des véhicules électriques ou hybrides.",
				Impact:           ImpactHigh,
				Feasibility:      FeasibilityHard,
				ReductionPercent: 70,
			},
			{
				Title:            "Former les conducteurs à l'éco-conduite",
				Description:      "Programme de formation pour adopter des pratiques de conduite économes en carburant.",
				Impact:           ImpactMedium,
				Feasibility:      FeasibilityEasy,
				ReductionPercent: 15,
			},
		},
		LangEN: {
			{
				Title:            "Optimize delivery routes",
				Description:      "Use route optimization software to reduce kilometers driven and fuel consumption.",
				Impact:           ImpactHigh,
				Feasibility:      FeasibilityMedium,
				ReductionPercent: 25,
			},
			{
				Title:            "Transition to electric vehicles",
				Description:      "Gradually replace fleet with electric or hybrid vehicles.",
				Impact:           ImpactHigh,
				Feasibility:      FeasibilityHard,
				ReductionPercent: 70,
			},
			{
				Title:            "Train drivers in eco-driving",
				Description:      "Training program to adopt fuel-efficient driving practices.",
				Impact:           ImpactMedium,
				Feasibility:      FeasibilityEasy,
				ReductionPercent: 15,
			},
		},
	},
	"energie": {
		LangFR: {
			{
				Title:            "Passer à l'électricité verte",
				Description:      "Souscrire à un contrat d'électricité 100% renouvelable auprès d'un fournisseur certifié.",
				Impact:           ImpactHigh,
				Feasibility:      FeasibilityEasy,
				ReductionPercent: 80,
			},
			{
				Title:            "Installer des panneaux solaires",
				Description:      "Produire votre propre électricité verte pour réduire la dépendance au réseau.",
				Impact:           ImpactHigh,
				Feasibility:      FeasibilityHard,
				ReductionPercent: 50,
			},
			{
				Title:            "Améliorer l'isolation des bâtiments",
				Description:      "Réduire les besoins en chauffage et climatisation par une meilleure isolation.",
				Impact:           ImpactHigh,
				Feasibility:      FeasibilityMedium,
				ReductionPercent: 30,
			},
			{
				Title:            "Remplacer les ampoules par des LED",
				Description:      "Les LED consomment 75% moins d'énergie que les ampoules classiques.",
				Impact:           ImpactMedium,
				Feasibility:      FeasibilityEasy,
				ReductionPercent: 10,
			},
		},
		LangEN: {
			{
				Title:            "Switch to green electricity",
				Description:      "Subscribe to a 100% renewable electricity contract from a certified supplier.",
				Impact:           ImpactHigh,
				Feasibility:      FeasibilityEasy,
				ReductionPercent: 80,
			},
			{
				Title:            "Install solar panels",
				Description:      "Generate your own green electricity to reduce grid dependence.",
				Impact:           ImpactHigh,
				Feasibility:      FeasibilityHard,
				ReductionPercent: 50,
			},
			{
				Title:            "Improve building insulation",
				Description:      "Reduce heating and cooling needs through better insulation.",
				Impact:           ImpactHigh,
				Feasibility:      FeasibilityMedium,
				ReductionPercent: 30,
			},
			{
				Title:            "Replace bulbs with LEDs",
				Description:      "LEDs use 75% less energy than traditional bulbs.",
				Impact:           ImpactMedium,
				Feasibility:      FeasibilityEasy,
				ReductionPercent: 10,
			},
		},
	},
	"materiaux": {
		LangFR: {
			{
				Title:            "Privilégier les matériaux recyclés",
				Description:      "Acheter des matériaux de construction recyclés ou biosourcés pour réduire l'empreinte carbone.",
				Impact:           ImpactHigh,
				Feasibility:      FeasibilityMedium,
				ReductionPercent: 40,
			},
			{
				Title:            "Mettre en place un système de réemploi",
				Description:      "Créer une filière de récupération et réutilisation des matériaux sur les chantiers.",
				Impact:           ImpactMedium,
				Feasibility:      FeasibilityMedium,
				ReductionPercent: 25,
			},
			{
				Title:            "Choisir des fournisseurs locaux",
				Description:      "Réduire le transport en privilégiant les fournisseurs dans un rayon de 100 km.",
				Impact:           ImpactMedium,
				Feasibility:      FeasibilityEasy,
				ReductionPercent: 15,
			},
		},
		LangEN: {
			{
				Title:            "Prioritize recycled materials",
				Description:      "Purchase recycled or bio-based construction materials to reduce carbon footprint.",
				Impact:           ImpactHigh,
				Feasibility:      FeasibilityMedium,
				ReductionPercent: 40,
			},
			{
				Title:            "Implement a reuse system",
				Description:      "Create a recovery and reuse channel for materials on construction sites.",
				Impact:           ImpactMedium,
				Feasibility:      FeasibilityMedium,
				ReductionPercent: 25,
			},
			{
				Title:            "Choose local suppliers",
				Description:      "Reduce transport by prioritizing suppliers within 60 miles.",
				Impact:           ImpactMedium,
				Feasibility:      FeasibilityEasy,
				ReductionPercent: 15,
			},
		},
	},
	"services": {
		LangFR: {
			{
				Title:            "Passer à un hébergeur web vert",
				Description:      "Migrer vers un hébergeur qui utilise 100% d'énergies renouvelables pour ses data centers.",
				Impact:           ImpactMedium,
				Feasibility:      FeasibilityEasy,
				ReductionPercent: 50,
			},
			{
				Title:            "Optimiser les services numériques",
				Description:      "Réduire la consommation d'énergie des serveurs et applications en optimisant le code.",
				Impact:           ImpactMedium,
				Feasibility:      FeasibilityMedium,
				ReductionPercent: 30,
			},
			{
				Title:            "Sensibiliser les équipes",
				Description:      "Former les collaborateurs aux gestes numériques responsables (désabonnements, nettoyage emails...).",
				Impact:           ImpactLow,
				Feasibility:      FeasibilityEasy,
				ReductionPercent: 10,
			},
		},
		LangEN: {
			{
				Title:            "Switch to green web hosting",
				Description:      "Migrate to a host that uses 100% renewable energy for its data centers.",
				Impact:           ImpactMedium,
				Feasibility:      FeasibilityEasy,
				ReductionPercent: 50,
			},
			{
				Title:            "Optimize digital services",
				Description:      "Reduce server and application energy consumption by optimizing code.",
				Impact:           ImpactMedium,
				Feasibility:      FeasibilityMedium,
				ReductionPercent: 30,
			},
			{
				Title:            "Raise team awareness",
				Description:      "Train employees in responsible digital practices (unsubscribing, email cleanup...).",
				Impact:           ImpactLow,
				Feasibility:      FeasibilityEasy,
				ReductionPercent: 10,
			},
		},
	},
	"equipements": {
		LangFR: {
			{
				Title:            "Prolonger la durée de vie des équipements",
				Description:      "Réparer et maintenir plutôt que remplacer. Un ordinateur gardé 5 ans au lieu de 3 réduit son impact de 40%.",
				Impact:           ImpactHigh,
				Feasibility:      FeasibilityEasy,
				ReductionPercent: 40,
			},
			{
				Title:            "Acheter du matériel reconditionné",
				Description:      "Privilégier l'équipement reconditionné certifié pour le matériel informatique et électronique.",
				Impact:           ImpactHigh,
				Feasibility:      FeasibilityEasy,
				ReductionPercent: 70,
			},
			{
				Title:            "Mettre en place un programme de recyclage",
				Description:      "Assurer le recyclage correct des équipements en fin de vie via des filières certifiées.",
				Impact:           ImpactMedium,
				Feasibility:      FeasibilityEasy,
				ReductionPercent: 20,
			},
		},
		LangEN: {
			{
				Title:            "Extend equipment lifespan",
				Description:      "Repair and maintain rather than replace. A computer kept 5 years instead of 3 reduces its impact by 40%.",
				Impact:           ImpactHigh,
				Feasibility:      FeasibilityEasy,
				ReductionPercent: 40,
			},
			{
				Title:            "Buy refurbished equipment",
				Description:      "Prioritize certified refurbished equipment for IT and electronics.",
				Impact:           ImpactHigh,
				Feasibility:      FeasibilityEasy,
				ReductionPercent: 70,
			},
			{
				Title:            "Implement a recycling program",
				Description:      "Ensure proper recycling of end-of-life equipment through certified channels.",
				Impact:           ImpactMedium,
				Feasibility:      FeasibilityEasy,
				ReductionPercent: 20,
			},
		},
	},
	"achat": {
		LangFR: {
			{
				Title:            "Privilégier les fournisseurs éco-responsables",
				Description:      "Sélectionner des fournisseurs avec des certifications environnementales et des pratiques durables.",
				Impact:           ImpactHigh,
				Feasibility:      FeasibilityMedium,
				ReductionPercent: 30,
			},
			{
				Title:            "Optimiser les volumes d'achat",
				Description:      "Grouper les commandes pour réduire la fréquence de livraison et les émissions liées au transport.",
				Impact:           ImpactMedium,
				Feasibility:      FeasibilityEasy,
				ReductionPercent: 20,
			},
			{
				Title:            "Acheter local et de saison",
				Description:      "Privilégier les produits locaux et de saison pour réduire l'empreinte carbone du transport.",
				Impact:           ImpactHigh,
				Feasibility:      FeasibilityMedium,
				ReductionPercent: 35,
			},
		},
		LangEN: {
			{
				Title:            "Prioritize eco-responsible suppliers",
				Description:      "Select suppliers with environmental certifications and sustainable practices.",
				Impact:           ImpactHigh,
				Feasibility:      FeasibilityMedium,
				ReductionPercent: 30,
			},
			{
				Title:            "Optimize purchase volumes",
				Description:      "Group orders to reduce delivery frequency and transport-related emissions.",
				Impact:           ImpactMedium,
				Feasibility:      FeasibilityEasy,
				ReductionPercent: 20,
			},
			{
				Title:            "Buy local and seasonal",
				Description:      "Prioritize local and seasonal products to reduce transportation carbon footprint.",
				Impact:           ImpactHigh,
				Feasibility:      FeasibilityMedium,
				ReductionPercent: 35,
			},
		},
	},
	"approvisionnement": {
		LangFR: {
			{
				Title:            "Optimiser la logistique et le transport",
				Description:      "Mutualiser les livraisons et privilégier les modes de transport bas-carbone.",
				Impact:           ImpactHigh,
				Feasibility:      FeasibilityMedium,
				ReductionPercent: 40,
			},
			{
				Title:            "Réduire les stocks dormants",
				Description:      "Améliorer la gestion des stocks pour éviter le sur-stockage et les pertes.",
				Impact:           ImpactMedium,
				Feasibility:      FeasibilityMedium,
				ReductionPercent: 25,
			},
			{
				Title:            "Digitaliser la chaîne d'approvisionnement",
				Description:      "Utiliser des outils numériques pour optimiser les flux et réduire les déchets.",
				Impact:           ImpactMedium,
				Feasibility:      FeasibilityHard,
				ReductionPercent: 20,
			},
		},
		LangEN: {
			{
				Title:            "Optimize logistics and transportation",
				Description:      "Pool deliveries and prioritize low-carbon transportation modes.",
				Impact:           ImpactHigh,
				Feasibility:      FeasibilityMedium,
				ReductionPercent: 40,
			},
			{
				Title:            "Reduce idle inventory",
				Description:      "Improve inventory management to avoid overstocking and losses.",
				Impact:           ImpactMedium,
				Feasibility:      FeasibilityMedium,
				ReductionPercent: 25,
			},
			{
				Title:            "Digitalize supply chain",
				Description:      "Use digital tools to optimize flows and reduce waste.",
				Impact:           ImpactMedium,
				Feasibility:      FeasibilityHard,
				ReductionPercent: 20,
			},
		},
	},
	"article": {
		LangFR: {
			{
				Title:            "Éco-concevoir les produits",
				Description:      "Intégrer l'analyse du cycle de vie dès la conception pour réduire l'empreinte carbone des articles.",
				Impact:           ImpactHigh,
				Feasibility:      FeasibilityHard,
				ReductionPercent: 45,
			},
			{
				Title:            "Utiliser des matériaux recyclés",
				Description:      "Privilégier les matériaux recyclés et recyclables dans la fabrication des produits.",
				Impact:           ImpactHigh,
				Feasibility:      FeasibilityMedium,
				ReductionPercent: 35,
			},
			{
				Title:            "Allonger la durée de vie des produits",
				Description:      "Concevoir des articles durables, réparables et proposer un service après-vente de qualité.",
				Impact:           ImpactMedium,
				Feasibility:      FeasibilityMedium,
				ReductionPercent: 30,
			},
		},
		LangEN: {
			{
				Title:            "Eco-design products",
				Description:      "Integrate life cycle analysis from design stage to reduce articles carbon footprint.",
				Impact:           ImpactHigh,
				Feasibility:      FeasibilityHard,
				ReductionPercent: 45,
			},
			{
				Title:            "Use recycled materials",
				Description:      "Prioritize recycled and recyclable materials in product manufacturing.",
				Impact:           ImpactHigh,
				Feasibility:      FeasibilityMedium,
				ReductionPercent: 35,
			},
			{
				Title:            "Extend product lifespan",
				Description:      "Design durable, repairable articles and offer quality after-sales service.",
				Impact:           ImpactMedium,
				Feasibility:      FeasibilityMedium,
				ReductionPercent: 30,
			},
		},
	},
	"autres": {
		LangFR: {
			{
				Title:            "Effectuer un bilan carbone complet",
				Description:      "Réaliser un diagnostic approfondi pour identifier tous les postes d'émissions.",
				Impact:           ImpactMedium,
				Feasibility:      FeasibilityMedium,
				ReductionPercent: 0,
			},
			{
				Title:            "Définir une stratégie bas-carbone",
				Description:      "Établir une feuille de route avec des objectifs chiffrés et un calendrier précis.",
				Impact:           ImpactHigh,
				Feasibility:      FeasibilityMedium,
				ReductionPercent: 0,
			},
		},
		LangEN: {
			{
				Title:            "Conduct a complete carbon assessment",
				Description:      "Perform an in-depth diagnosis to identify all emission sources.",
				Impact:           ImpactMedium,
				Feasibility:      FeasibilityMedium,
				ReductionPercent: 0,
			},
			{
				Title:            "Define a low-carbon strategy",
				Description:      "Establish a roadmap with quantified objectives and a precise timeline.",
				Impact:           ImpactHigh,
				Feasibility:      FeasibilityMedium,
				ReductionPercent: 0,
			},
		},
	},
}
