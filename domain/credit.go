package domain

// Program is one of the two Form 5695 benefit programs.
type Program string

const (
	ProgramCleanEnergy     Program = "clean_energy"
	ProgramHomeImprovement Program = "home_improvement"
)

// Bucket groups items that share an aggregate cap.
type Bucket string

const (
	BucketCleanEnergy Bucket = "clean_energy"
	BucketGeneral     Bucket = "general"
	BucketHeatPump    Bucket = "heat_pump"
)

// Program returns the program a bucket contributes to.
func (b Bucket) Program() Program {
	if b == BucketCleanEnergy {
		return ProgramCleanEnergy
	}
	return ProgramHomeImprovement
}

// Item identifies one itemized cost line.
type Item string

const (
	ItemSolarElectric   Item = "solar_electric"
	ItemSolarWater      Item = "solar_water_heating"
	ItemSmallWind       Item = "small_wind"
	ItemGeothermal      Item = "geothermal_heat_pump"
	ItemBatteryStorage  Item = "battery_storage"
	ItemFuelCell        Item = "fuel_cell"
	ItemInsulation      Item = "insulation_air_sealing"
	ItemWindows         Item = "windows_skylights"
	ItemExteriorDoors   Item = "exterior_doors"
	ItemCentralAir      Item = "central_air_conditioner"
	ItemWaterHeater     Item = "water_heater"
	ItemFurnaceBoiler   Item = "furnace_boiler"
	ItemElectricalPanel Item = "electrical_panel"
	ItemEnergyAudit     Item = "home_energy_audit"
	ItemHeatPump        Item = "heat_pump"
	ItemBiomass         Item = "biomass_stove_boiler"
)

// AllItems lists every item in form order: clean energy first, then home improvement.
var AllItems = []Item{
	ItemSolarElectric,
	ItemSolarWater,
	ItemSmallWind,
	ItemGeothermal,
	ItemBatteryStorage,
	ItemFuelCell,
	ItemInsulation,
	ItemWindows,
	ItemExteriorDoors,
	ItemCentralAir,
	ItemWaterHeater,
	ItemFurnaceBoiler,
	ItemElectricalPanel,
	ItemEnergyAudit,
	ItemHeatPump,
	ItemBiomass,
}

var itemLabels = map[Item]string{
	ItemSolarElectric:   "Solar Electric Property",
	ItemSolarWater:      "Solar Water Heating",
	ItemSmallWind:       "Small Wind Energy",
	ItemGeothermal:      "Geothermal Heat Pump",
	ItemBatteryStorage:  "Battery Storage",
	ItemFuelCell:        "Fuel Cell Property",
	ItemInsulation:      "Insulation & Air Sealing",
	ItemWindows:         "Windows & Skylights",
	ItemExteriorDoors:   "Exterior Doors",
	ItemCentralAir:      "Central Air Conditioner",
	ItemWaterHeater:     "Gas/Propane/Oil Water Heater",
	ItemFurnaceBoiler:   "Gas/Propane/Oil Furnace or Boiler",
	ItemElectricalPanel: "Electrical Panel Upgrade",
	ItemEnergyAudit:     "Home Energy Audit",
	ItemHeatPump:        "Heat Pump / Heat Pump Water Heater",
	ItemBiomass:         "Biomass Stove or Boiler",
}

// Label is the human readable name shown on forms and exports.
func (i Item) Label() string {
	if l, ok := itemLabels[i]; ok {
		return l
	}
	return string(i)
}

// Valid reports whether i is a known item.
func (i Item) Valid() bool {
	_, ok := itemLabels[i]
	return ok
}

// ItemizedCosts is the raw input of one estimate. Zero means absent.
type ItemizedCosts struct {
	SolarElectric      Money   `json:"solar_electric"`
	SolarWaterHeating  Money   `json:"solar_water_heating"`
	SmallWind          Money   `json:"small_wind"`
	GeothermalHeatPump Money   `json:"geothermal_heat_pump"`
	BatteryStorage     Money   `json:"battery_storage"`
	FuelCell           Money   `json:"fuel_cell"`
	FuelCellCapacityKW float64 `json:"fuel_cell_capacity_kw"`

	InsulationAirSealing  Money `json:"insulation_air_sealing"`
	WindowsSkylights      Money `json:"windows_skylights"`
	ExteriorDoors         Money `json:"exterior_doors"`
	DoorCount             int   `json:"door_count"`
	CentralAirConditioner Money `json:"central_air_conditioner"`
	WaterHeater           Money `json:"water_heater"`
	FurnaceBoiler         Money `json:"furnace_boiler"`
	ElectricalPanel       Money `json:"electrical_panel"`
	HomeEnergyAudit       Money `json:"home_energy_audit"`
	HeatPump              Money `json:"heat_pump"`
	BiomassStoveBoiler    Money `json:"biomass_stove_boiler"`
}

// field returns a pointer to the cost field backing item, or nil.
func (c *ItemizedCosts) field(item Item) *Money {
	switch item {
	case ItemSolarElectric:
		return &c.SolarElectric
	case ItemSolarWater:
		return &c.SolarWaterHeating
	case ItemSmallWind:
		return &c.SmallWind
	case ItemGeothermal:
		return &c.GeothermalHeatPump
	case ItemBatteryStorage:
		return &c.BatteryStorage
	case ItemFuelCell:
		return &c.FuelCell
	case ItemInsulation:
		return &c.InsulationAirSealing
	case ItemWindows:
		return &c.WindowsSkylights
	case ItemExteriorDoors:
		return &c.ExteriorDoors
	case ItemCentralAir:
		return &c.CentralAirConditioner
	case ItemWaterHeater:
		return &c.WaterHeater
	case ItemFurnaceBoiler:
		return &c.FurnaceBoiler
	case ItemElectricalPanel:
		return &c.ElectricalPanel
	case ItemEnergyAudit:
		return &c.HomeEnergyAudit
	case ItemHeatPump:
		return &c.HeatPump
	case ItemBiomass:
		return &c.BiomassStoveBoiler
	}
	return nil
}

// Cost returns the cost entered for item. Unknown items cost zero.
func (c ItemizedCosts) Cost(item Item) Money {
	if f := c.field(item); f != nil {
		return *f
	}
	return Money{}
}

// Add accumulates amount into the field for item and reports whether the
// item is known.
func (c *ItemizedCosts) Add(item Item, amount Money) bool {
	f := c.field(item)
	if f == nil {
		return false
	}
	f.Decimal = f.Decimal.Add(amount.Decimal)
	return true
}

// ItemCredit is the credit computed for one item before aggregate caps.
type ItemCredit struct {
	Item     Item   `json:"item"`
	Label    string `json:"label"`
	Bucket   Bucket `json:"bucket"`
	Cost     Money  `json:"cost"`
	Uncapped Money  `json:"uncapped"`
	Credit   Money  `json:"credit"`
	Capped   bool   `json:"capped"`
}

// CreditResult is the output of one computation.
// TotalCredit always equals CleanEnergyCredit + HomeImprovementCredit.
type CreditResult struct {
	CleanEnergyCredit     Money `json:"clean_energy_credit"`
	HomeImprovementCredit Money `json:"home_improvement_credit"`
	TotalCredit           Money `json:"total_credit"`

	GeneralSubtotal Money `json:"general_subtotal"`
	GeneralCredit   Money `json:"general_credit"`
	HeatPumpCredit  Money `json:"heat_pump_credit"`

	Items         []ItemCredit `json:"items,omitempty"`
	ClampedFields []string     `json:"clamped_fields,omitempty"`
}

// Estimate pairs the inputs of a computation with its result.
type Estimate struct {
	Costs  ItemizedCosts `json:"costs"`
	Result CreditResult  `json:"result"`
}
