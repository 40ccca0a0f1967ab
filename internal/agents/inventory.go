package agents

import "slices"

// DefaultInventoryCapacity is how many items a tribute can carry.
const DefaultInventoryCapacity = 4

// ItemValues ranks items for eviction when a pack overflows.
// Items not listed are worth 0.
var ItemValues = map[string]int{
	"Explosives":         20,
	"Gun":                18,
	"Scythe":             16,
	"Antidote":           16,
	"Bow":                15,
	"Arrows":             15,
	"Sword":              15,
	"Spear":              14,
	"Trident":            14,
	"Axe":                13,
	"Knife":              12,
	"Machete":            12,
	"First Aid Kit":      10,
	"Bandages":           10,
	"Medicine":           10,
	"Shield":             8,
	"Molotov Components": 8,
	"Shovel":             7,
	"Bread":              6,
	"Backpack":           5,
	"Water":              5,
	"Food":               4,
	"Rope":               3,
	"Wire":               3,
	"Sheet Plastic":      2,
	"Rock":               1,
	"Stick":              0,
}

// ItemValue returns the eviction value of an item.
func ItemValue(item string) int {
	return ItemValues[item]
}

// KnownItem reports whether item appears in the value table.
func KnownItem(item string) bool {
	_, ok := ItemValues[item]
	return ok
}

// InventoryValue sums the value of everything carried.
func (t *Tribute) InventoryValue() int {
	total := 0
	for _, item := range t.Inventory {
		total += ItemValue(item)
	}
	return total
}

// HasItem reports whether the tribute carries item.
func (t *Tribute) HasItem(item string) bool {
	return slices.Contains(t.Inventory, item)
}

// AddItems appends items, then evicts the lowest-value items until the
// pack fits capacity. Returns the evicted items.
func (t *Tribute) AddItems(capacity int, items ...string) []string {
	t.Inventory = append(t.Inventory, items...)
	return t.enforceCapacity(capacity)
}

// RemoveItem drops the first occurrence of item.
func (t *Tribute) RemoveItem(item string) bool {
	idx := slices.Index(t.Inventory, item)
	if idx < 0 {
		return false
	}
	t.Inventory = slices.Delete(t.Inventory, idx, idx+1)
	return true
}

// TakeInventory empties the pack and returns what was in it.
func (t *Tribute) TakeInventory() []string {
	items := t.Inventory
	t.Inventory = []string{}
	return items
}

// enforceCapacity evicts the cheapest item (latest on ties) until the pack
// holds at most capacity items. Surviving items keep their order.
func (t *Tribute) enforceCapacity(capacity int) []string {
	if capacity < 0 {
		capacity = 0
	}
	var evicted []string
	for len(t.Inventory) > capacity {
		worst := 0
		for i, item := range t.Inventory {
			if ItemValue(item) <= ItemValue(t.Inventory[worst]) {
				worst = i
			}
		}
		evicted = append(evicted, t.Inventory[worst])
		t.Inventory = slices.Delete(t.Inventory, worst, worst+1)
	}
	return evicted
}
