package data

import _ "embed"

//go:embed assets/type_effectiveness.csv
var embeddedEffectiveness []byte

//go:embed assets/species.yaml
var embeddedSpecies []byte
