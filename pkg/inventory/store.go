package inventory

import "reien/entities"

// LastUpdated is the as-of label of the built-in tables.
const LastUpdated = "2024年9月末時点"

// Section counts per period. The figures are copied from the office ledger
// as-is; some rows do not balance (see Discrepancies) and must not be fixed here.
var (
	period1Inventory = []entities.PlotInventoryItem{
		{Period: entities.Period1, Section: "A", TotalCount: 149, UsedCount: 138, RemainingCount: 11},
		{Period: entities.Period1, Section: "B", TotalCount: 6, UsedCount: 6, RemainingCount: 0},
		{Period: entities.Period1, Section: "C", TotalCount: 120, UsedCount: 112, RemainingCount: 8},
		{Period: entities.Period1, Section: "D", TotalCount: 98, UsedCount: 98, RemainingCount: 0},
		{Period: entities.Period1, Section: "E", TotalCount: 84, UsedCount: 80, RemainingCount: 4},
		{Period: entities.Period1, Section: "F", TotalCount: 76, UsedCount: 70, RemainingCount: 6},
		{Period: entities.Period1, Section: "G", TotalCount: 64, UsedCount: 64, RemainingCount: 0},
		{Period: entities.Period1, Section: "H", TotalCount: 58, UsedCount: 51, RemainingCount: 7},
		{Period: entities.Period1, Section: "I", TotalCount: 52, UsedCount: 49, RemainingCount: 3},
		{Period: entities.Period1, Section: "J", TotalCount: 45, UsedCount: 45, RemainingCount: 0},
		{Period: entities.Period1, Section: "K", TotalCount: 40, UsedCount: 36, RemainingCount: 4},
		{Period: entities.Period1, Section: "L", TotalCount: 38, UsedCount: 38, RemainingCount: 0},
		{Period: entities.Period1, Section: "M", TotalCount: 32, UsedCount: 29, RemainingCount: 3},
		{Period: entities.Period1, Section: "N", TotalCount: 30, UsedCount: 30, RemainingCount: 0},
		{Period: entities.Period1, Section: "O", TotalCount: 24, UsedCount: 21, RemainingCount: 3},
		{Period: entities.Period1, Section: "P", TotalCount: 18, UsedCount: 18, RemainingCount: 0},
		{Period: entities.Period1, Section: "Q", TotalCount: 12, UsedCount: 10, RemainingCount: 2},
	}

	period2Inventory = []entities.PlotInventoryItem{
		{Period: entities.Period2, Section: "1区", TotalCount: 180, UsedCount: 171, RemainingCount: 9},
		{Period: entities.Period2, Section: "2区", TotalCount: 160, UsedCount: 160, RemainingCount: 0},
		{Period: entities.Period2, Section: "3区", TotalCount: 140, UsedCount: 128, RemainingCount: 12},
		{Period: entities.Period2, Section: "4区", TotalCount: 132, UsedCount: 119, RemainingCount: 13},
		{Period: entities.Period2, Section: "5区", TotalCount: 96, UsedCount: 90, RemainingCount: 6},
		{Period: entities.Period2, Section: "6区", TotalCount: 88, UsedCount: 88, RemainingCount: 0},
		{Period: entities.Period2, Section: "7区", TotalCount: 72, UsedCount: 60, RemainingCount: 12},
		{Period: entities.Period2, Section: "8区", TotalCount: 40, UsedCount: 35, RemainingCount: 6},
	}

	period3Inventory = []entities.PlotInventoryItem{
		{Period: entities.Period3, Section: "A", TotalCount: 110, UsedCount: 94, RemainingCount: 16},
		{Period: entities.Period3, Section: "B", TotalCount: 104, UsedCount: 90, RemainingCount: 14},
		{Period: entities.Period3, Section: "C", TotalCount: 96, UsedCount: 80, RemainingCount: 16},
		{Period: entities.Period3, Section: "D", TotalCount: 88, UsedCount: 70, RemainingCount: 18},
		{Period: entities.Period3, Section: "E", TotalCount: 64, UsedCount: 47, RemainingCount: 17},
	}

	// woodland and sky plots, listed after the standard 3期 sections
	period3SpecialInventory = []entities.PlotInventoryItem{
		{Period: entities.Period3, Section: "樹木葬A", TotalCount: 60, UsedCount: 32, RemainingCount: 28, Category: "樹木葬"},
		{Period: entities.Period3, Section: "樹木葬B", TotalCount: 40, UsedCount: 12, RemainingCount: 28, Category: "樹木葬"},
		{Period: entities.Period3, Section: "天空", TotalCount: 48, UsedCount: 20, RemainingCount: 28, Category: "天空墓所"},
	}

	period4Inventory = []entities.PlotInventoryItem{
		{Period: entities.Period4, Section: "A", TotalCount: 80, UsedCount: 34, RemainingCount: 46},
		{Period: entities.Period4, Section: "B", TotalCount: 72, UsedCount: 21, RemainingCount: 51},
		{Period: entities.Period4, Section: "C", TotalCount: 64, UsedCount: 10, RemainingCount: 54},
		{Period: entities.Period4, Section: "D", TotalCount: 50, UsedCount: 5, RemainingCount: 45},
		{Period: entities.Period4, Section: "E", TotalCount: 0, UsedCount: 0, RemainingCount: 0, Category: "造成中"},
	}
)

// Counts per period and plot size.
var (
	period1ByArea = []entities.PlotByAreaItem{
		{Period: entities.Period1, AreaSqm: 1.8, TotalCount: 242, UsedCount: 217, RemainingCount: 25, RemainingAreaSqm: 45, PlotType: "自由墓所"},
		{Period: entities.Period1, AreaSqm: 2.16, TotalCount: 5, UsedCount: 12, RemainingCount: 3, RemainingAreaSqm: 6.48, PlotType: "自由墓所"},
		{Period: entities.Period1, AreaSqm: 3.6, TotalCount: 480, UsedCount: 457, RemainingCount: 23, RemainingAreaSqm: 82.8, PlotType: "自由墓所"},
		{Period: entities.Period1, AreaSqm: 4, TotalCount: 60, UsedCount: 57, RemainingCount: 3, RemainingAreaSqm: 12, PlotType: "吉相墓所"},
	}

	period2ByArea = []entities.PlotByAreaItem{
		{Period: entities.Period2, AreaSqm: 1.8, TotalCount: 300, UsedCount: 280, RemainingCount: 20, RemainingAreaSqm: 36, PlotType: "自由墓所"},
		{Period: entities.Period2, AreaSqm: 2.4, TotalCount: 220, UsedCount: 205, RemainingCount: 15, RemainingAreaSqm: 36, PlotType: "自由墓所"},
		{Period: entities.Period2, AreaSqm: 3.6, TotalCount: 300, UsedCount: 287, RemainingCount: 13, RemainingAreaSqm: 46.8, PlotType: "吉相墓所"},
		{Period: entities.Period2, AreaSqm: 4.5, TotalCount: 88, UsedCount: 85, RemainingCount: 3, RemainingAreaSqm: 9, PlotType: "吉相墓所"},
	}

	period3ByArea = []entities.PlotByAreaItem{
		{Period: entities.Period3, AreaSqm: 2.4, TotalCount: 180, UsedCount: 150, RemainingCount: 30, RemainingAreaSqm: 72, PlotType: "自由墓所"},
		{Period: entities.Period3, AreaSqm: 3, TotalCount: 150, UsedCount: 120, RemainingCount: 30, RemainingAreaSqm: 90, PlotType: "自由墓所"},
		{Period: entities.Period3, AreaSqm: 3.6, TotalCount: 132, UsedCount: 111, RemainingCount: 21, RemainingAreaSqm: 75.6, PlotType: "吉相墓所"},
	}

	period3SpecialByArea = []entities.PlotByAreaItem{
		{Period: entities.Period3, AreaSqm: 1, TotalCount: 100, UsedCount: 44, RemainingCount: 56, RemainingAreaSqm: 56, PlotType: "樹木葬"},
		{Period: entities.Period3, AreaSqm: 1.2, TotalCount: 48, UsedCount: 20, RemainingCount: 28, RemainingAreaSqm: 33.6, PlotType: "樹木葬"},
	}

	period4ByArea = []entities.PlotByAreaItem{
		{Period: entities.Period4, AreaSqm: 2.4, TotalCount: 120, UsedCount: 40, RemainingCount: 80, RemainingAreaSqm: 192, PlotType: "自由墓所"},
		{Period: entities.Period4, AreaSqm: 3, TotalCount: 96, UsedCount: 20, RemainingCount: 76, RemainingAreaSqm: 228, PlotType: "自由墓所"},
		{Period: entities.Period4, AreaSqm: 3.6, TotalCount: 50, UsedCount: 10, RemainingCount: 40, RemainingAreaSqm: 144, PlotType: "吉相墓所"},
		{Period: entities.Period4, AreaSqm: 4.5, TotalCount: 0, UsedCount: 0, RemainingCount: 0, RemainingAreaSqm: 0, PlotType: "吉相墓所"},
	}
)

var static = buildStatic()

func buildStatic() *Dataset {
	var plots []entities.PlotInventoryItem
	for _, part := range [][]entities.PlotInventoryItem{
		period1Inventory,
		period2Inventory,
		period3Inventory,
		period3SpecialInventory,
		period4Inventory,
	} {
		plots = append(plots, part...)
	}

	var byArea []entities.PlotByAreaItem
	for _, part := range [][]entities.PlotByAreaItem{
		period1ByArea,
		period2ByArea,
		period3ByArea,
		period3SpecialByArea,
		period4ByArea,
	} {
		byArea = append(byArea, part...)
	}
	return NewDataset(plots, byArea, LastUpdated)
}

// Static returns the built-in tables.
func Static() *Dataset { return static }

func GetAllPlotInventory() []entities.PlotInventoryItem { return static.PlotInventory() }

func GetPlotInventoryByPeriod(p entities.Period) []entities.PlotInventoryItem {
	return static.PlotInventoryByPeriod(p)
}

func GetAllPlotsByArea() []entities.PlotByAreaItem { return static.PlotsByArea() }

func GetPlotsByAreaForPeriod(p entities.Period) []entities.PlotByAreaItem {
	return static.PlotsByAreaForPeriod(p)
}
