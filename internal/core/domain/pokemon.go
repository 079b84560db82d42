package domain

// NamedResource is the {name, url} pair PokeAPI uses for every reference.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type AbilityItem struct {
	Ability  NamedResource `json:"ability"`
	IsHidden bool          `json:"is_hidden"`
	Slot     int           `json:"slot"`
}

type GameIndex struct {
	GameIndex int           `json:"game_index"`
	Version   NamedResource `json:"version"`
}

type VersionGroupDetail struct {
	LevelLearnedAt  int           `json:"level_learned_at"`
	MoveLearnMethod NamedResource `json:"move_learn_method"`
	VersionGroup    NamedResource `json:"version_group"`
}

type MoveItem struct {
	Move                NamedResource        `json:"move"`
	VersionGroupDetails []VersionGroupDetail `json:"version_group_details"`
}

type Sprites struct {
	FrontDefault *string `json:"front_default"`
	FrontShiny   *string `json:"front_shiny"`
}

type StatItem struct {
	BaseStat int           `json:"base_stat"`
	Effort   int           `json:"effort"`
	Stat     NamedResource `json:"stat"`
}

type TypeItem struct {
	Slot int           `json:"slot"`
	Type NamedResource `json:"type"`
}

// Pokemon is the subset of a PokeAPI pokemon document this service relays
// and exports.
type Pokemon struct {
	Abilities   []AbilityItem   `json:"abilities"`
	Forms       []NamedResource `json:"forms"`
	GameIndices []GameIndex     `json:"game_indices"`
	Height      int             `json:"height"       validate:"gte=0"`
	ID          int             `json:"id"`
	Moves       []MoveItem      `json:"moves"`
	Name        string          `json:"name"         validate:"required"`
	Order       int             `json:"order"`
	Species     NamedResource   `json:"species"`
	Sprites     Sprites         `json:"sprites"`
	Stats       []StatItem      `json:"stats"`
	Types       []TypeItem      `json:"types"`
	Weight      int             `json:"weight"       validate:"gte=0"`
}
