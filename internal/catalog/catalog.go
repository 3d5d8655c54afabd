// Package catalog holds the static reference data for the game: part types,
// car models, tuning ladders, cosmetic packages, garage tiers, crew perks,
// race events, league ranks, and currency rates. Everything here is a
// load-time constant; runtime state lives in internal/engine.
package catalog

// PartKey identifies one of the 17 fixed part categories.
type PartKey string

const (
	PartEngineBlock  PartKey = "engine_block"
	PartInduction    PartKey = "induction"
	PartFuelSystem   PartKey = "fuel_system"
	PartCooling      PartKey = "cooling"
	PartIgnition     PartKey = "ignition"
	PartTiming       PartKey = "timing"
	PartAlternator   PartKey = "alternator"
	PartECU          PartKey = "ecu"
	PartTransmission PartKey = "transmission"
	PartClutch       PartKey = "clutch"
	PartDifferential PartKey = "differential"
	PartSuspension   PartKey = "suspension"
	PartTires        PartKey = "tires"
	PartBrakes       PartKey = "brakes"
	PartExhaust      PartKey = "exhaust"
	PartBattery      PartKey = "battery"
	PartElectronics  PartKey = "electronics"
)

// PartType is one repairable part category with its legal base price in USD.
type PartType struct {
	Key       PartKey `json:"key"`
	Name      string  `json:"name"`
	BasePrice int64   `json:"base_price"`
}

// Parts lists every part category in fixed catalog order. Race failure
// resolution scans this slice in order, so the ordering is load-bearing.
var Parts = []PartType{
	{PartEngineBlock, "Engine Block", 4000},
	{PartInduction, "Induction (Turbo/Intake)", 1500},
	{PartFuelSystem, "Fuel System", 800},
	{PartCooling, "Cooling (Radiator/Pump)", 600},
	{PartIgnition, "Ignition (Coils/Plugs)", 300},
	{PartTiming, "Timing (Belt/Chain)", 700},
	{PartAlternator, "Alternator", 350},
	{PartECU, "ECU/Sensors", 900},
	{PartTransmission, "Transmission", 2500},
	{PartClutch, "Clutch", 700},
	{PartDifferential, "Differential", 1200},
	{PartSuspension, "Suspension", 1000},
	{PartTires, "Tires", 800},
	{PartBrakes, "Brakes", 600},
	{PartExhaust, "Exhaust", 900},
	{PartBattery, "Battery", 200},
	{PartElectronics, "Interior Electronics", 600},
}

// PartByKey returns the part type for key, or nil if the key is unknown.
func PartByKey(key PartKey) *PartType {
	for i := range Parts {
		if Parts[i].Key == key {
			return &Parts[i]
		}
	}
	return nil
}

// CarModel is a purchasable car model with its USD base price and base
// performance rating.
type CarModel struct {
	Name      string `json:"name"`
	BasePrice int64  `json:"base_price"`
	BasePerf  int    `json:"base_perf"`
}

var Models = []CarModel{
	{"Cobra GT", 18000, 80},
	{"Veloce RS", 24000, 88},
	{"Sakura Sport", 14000, 72},
	{"Highland 4x4", 16000, 65},
	{"Sting S", 30000, 95},
	{"Metro Hatch", 8000, 50},
	{"Silver Arrow", 22000, 78},
	{"Comet R", 28000, 90},
	{"Falcon V6", 12000, 62},
	{"Zephyr Coupe", 20000, 75},
	{"Nissan Skyline GT-R R34", 65000, 98},
	{"Toyota Supra Mk4 (A80)", 52000, 92},
	{"Mazda RX-7 (FD3S)", 38000, 88},
	{"Honda NSX (NA2)", 90000, 96},
	{"Mitsubishi Lancer Evo VI", 32000, 86},
	{"Subaru Impreza WRX STI (GC8)", 28000, 84},
	{"Nissan Silvia (S15)", 26000, 82},
	{"Toyota AE86 Trueno", 18000, 70},
	{"Honda S2000 (AP2)", 30000, 85},
	{"Nissan 300ZX (Z32)", 22000, 78},
	{"Toyota Chaser (JZX100)", 26000, 80},
	{"Toyota Aristo V300 (JZS161)", 24000, 76},
}

// ModelByName returns the model with the given name, or nil.
func ModelByName(name string) *CarModel {
	for i := range Models {
		if Models[i].Name == name {
			return &Models[i]
		}
	}
	return nil
}

// TuningKey identifies one of the discrete tuning ladders.
type TuningKey string

const (
	TuningEngine     TuningKey = "engine"
	TuningSuspension TuningKey = "suspension"
	TuningAero       TuningKey = "aero"
)

// TuningStage is a single step on an upgrade ladder. Stage 0 is always the
// zero-cost stock baseline.
type TuningStage struct {
	Label string `json:"label"`
	Bonus int    `json:"bonus"`
	Cost  int64  `json:"cost"`
}

// TuningOption is an upgrade ladder; stages are strictly increasing in both
// bonus and cost.
type TuningOption struct {
	Key    TuningKey     `json:"key"`
	Name   string        `json:"name"`
	Stages []TuningStage `json:"stages"`
}

var TuningOptions = []TuningOption{
	{
		Key:  TuningEngine,
		Name: "Engine Mapping",
		Stages: []TuningStage{
			{"Stock", 0, 0},
			{"Stage 1", 18, 4500},
			{"Stage 2", 38, 7800},
			{"Race Map", 62, 11800},
		},
	},
	{
		Key:  TuningSuspension,
		Name: "Suspension Setup",
		Stages: []TuningStage{
			{"Factory", 0, 0},
			{"Street", 12, 3600},
			{"Track", 26, 6200},
			{"Competition", 40, 8800},
		},
	},
	{
		Key:  TuningAero,
		Name: "Aero Trim",
		Stages: []TuningStage{
			{"Balanced", 0, 0},
			{"Street Kit", 8, 2800},
			{"Track Kit", 18, 4800},
			{"Ground Effect", 30, 7200},
		},
	},
}

// TuningByKey returns the tuning option for key, or nil.
func TuningByKey(key TuningKey) *TuningOption {
	for i := range TuningOptions {
		if TuningOptions[i].Key == key {
			return &TuningOptions[i]
		}
	}
	return nil
}

// CosmeticPackage is a one-time visual upgrade that raises resale value.
type CosmeticPackage struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Cost        int64   `json:"cost"`
	ResaleBonus float64 `json:"resale_bonus"`
}

var CosmeticPackages = []CosmeticPackage{
	{"wrap_midnight", "Midnight Wrap", 18000, 0.05},
	{"aero_kit", "Aero Kit", 28000, 0.07},
	{"interior_luxe", "Luxe Interior", 36000, 0.09},
	{"heritage_badge", "Heritage Badge", 45000, 0.12},
}

// CosmeticByID returns the package with the given id, or nil.
func CosmeticByID(id string) *CosmeticPackage {
	for i := range CosmeticPackages {
		if CosmeticPackages[i].ID == id {
			return &CosmeticPackages[i]
		}
	}
	return nil
}

// GarageTier describes one storage tier. Capacity is the tier's base slots
// plus any extra slots purchased within the tier.
type GarageTier struct {
	ID            string  `json:"id"`
	Label         string  `json:"label"`
	BaseSlots     int     `json:"base_slots"`
	UnlockCost    int64   `json:"unlock_cost"`
	SlotCostBase  int64   `json:"slot_cost_base"`
	SlotCostScale float64 `json:"slot_cost_scale"`
	MaxExtraSlots int     `json:"max_extra_slots"`
}

var GarageTiers = []GarageTier{
	{"lockup", "Back-Alley Lockup", 1, 0, 15000, 1.6, 2},
	{"warehouse", "Industrial Warehouse", 4, 125000, 50000, 1.55, 4},
	{"compound", "Underground Compound", 8, 325000, 110000, 1.5, 6},
	{"skyVault", "Skyline Vault", 12, 600000, 200000, 1.45, 6},
}

// GarageTierAt clamps index into the valid tier range and returns the tier.
func GarageTierAt(index int) GarageTier {
	if index < 0 {
		index = 0
	}
	if index >= len(GarageTiers) {
		index = len(GarageTiers) - 1
	}
	return GarageTiers[index]
}

// CrewKey identifies a one-time crew investment.
type CrewKey string

const (
	CrewHeatSuppression   CrewKey = "heatSuppression"
	CrewContrabandNetwork CrewKey = "contrabandNetwork"
	CrewPitCrew           CrewKey = "pitCrew"
)

// CrewInvestment is a permanent perk bought with cash.
type CrewInvestment struct {
	Key   CrewKey `json:"key"`
	Label string  `json:"label"`
	Cost  int64   `json:"cost"`
}

var CrewInvestments = []CrewInvestment{
	{CrewHeatSuppression, "Heat Suppression Unit", 195000},
	{CrewContrabandNetwork, "Contraband Network", 235000},
	{CrewPitCrew, "Elite Pit Crew", 260000},
}

// CrewByKey returns the investment for key, or nil.
func CrewByKey(key CrewKey) *CrewInvestment {
	for i := range CrewInvestments {
		if CrewInvestments[i].Key == key {
			return &CrewInvestments[i]
		}
	}
	return nil
}

// RaceEvent is a scripted street race: a named opponent bracket with an
// entry fee, a prize pot, and the heat it draws.
type RaceEvent struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	OpponentPerf int    `json:"opponent_perf"`
	EntryFee     int64  `json:"entry_fee"`
	Prize        int64  `json:"prize"`
	Heat         int    `json:"heat"`
}

var RaceEvents = []RaceEvent{
	{"local_meet", "Local Meet", 55, 500, 1200, 1},
	{"warehouse_run", "Warehouse Run", 65, 1000, 2500, 2},
	{"highway_pull", "Highway Pull", 78, 2500, 6000, 4},
	{"docks_sprint", "Docks Sprint", 85, 5000, 12000, 6},
	{"mountain_pass", "Mountain Pass", 92, 10000, 25000, 8},
	{"midnight_grand_prix", "Midnight Grand Prix", 98, 20000, 50000, 12},
}

// RaceEventByID returns the event with the given id, or nil.
func RaceEventByID(id string) *RaceEvent {
	for i := range RaceEvents {
		if RaceEvents[i].ID == id {
			return &RaceEvents[i]
		}
	}
	return nil
}

// LeagueRank is one rung of the underground league. Opponents lists the
// performance rating of each match in the rank, fought in order.
type LeagueRank struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Opponents   []int  `json:"opponents"`
	EntryFee    int64  `json:"entry_fee"`
	WinPrize    int64  `json:"win_prize"`
	TrophyBonus int64  `json:"trophy_bonus"`
	Heat        int    `json:"heat"`
}

var LeagueRanks = []LeagueRank{
	{"street_novice", "Street Novice", []int{58, 64, 70}, 800, 2000, 5000, 1},
	{"city_circuit", "City Circuit", []int{72, 78, 84}, 2000, 5000, 12000, 2},
	{"harbor_league", "Harbor League", []int{82, 88, 94}, 5000, 12000, 30000, 4},
	{"expressway_elite", "Expressway Elite", []int{90, 96, 102}, 12000, 28000, 70000, 6},
	{"midnight_finals", "Midnight Finals", []int{98, 105, 112, 120}, 25000, 60000, 150000, 10},
}

// LeagueRankAt clamps index into the valid rank range and returns the rank.
func LeagueRankAt(index int) LeagueRank {
	if index < 0 {
		index = 0
	}
	if index >= len(LeagueRanks) {
		index = len(LeagueRanks) - 1
	}
	return LeagueRanks[index]
}

// CurrencyRates maps a currency code to its rate relative to USD. All base
// prices in the catalog are USD; the active rate scales them at creation
// time and on currency switch.
var CurrencyRates = map[string]float64{
	"USD": 1,
	"GBP": 0.79,
	"EUR": 0.93,
	"JPY": 155,
	"PLN": 4.0,
}

// Rate returns the rate for code, defaulting to 1 (USD) for unknown codes.
func Rate(code string) float64 {
	if r, ok := CurrencyRates[code]; ok {
		return r
	}
	return 1
}
