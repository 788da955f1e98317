package model

// AllSkinTypes - универсальная метка типа кожи, подходящая под любой фильтр.
const AllSkinTypes = "All Skin Types"

// Categories перечисляет категории каталога.
var Categories = []string{
	"Body Care",
	"Cleansers",
	"Essence",
	"Eye Care",
	"Hair Care",
	"Lip Care",
	"Masks",
	"Moisturizers",
	"Serums",
	"Sets & Bundles",
	"Sunscreen",
	"Treatments",
}

// SkinTypes перечисляет метки типа кожи.
var SkinTypes = []string{"Dry", "Oily", "Combination", "Sensitive", "Normal", "Mature", AllSkinTypes}

// Concerns перечисляет метки проблем кожи.
var Concerns = []string{
	"Acne / Breakouts",
	"Anti-Aging",
	"Dryness / Hydration",
	"Brightening / Glow",
	"Barrier Repair",
	"Sensitivity",
	"Dark Spots",
	"Dark Circles",
	"Redness",
	"Oil Control / Pores",
	"Fine Lines",
}
