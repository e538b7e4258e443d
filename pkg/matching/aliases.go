package matching

// AliasRegistry maps a canonical brand name to its known alternate spellings,
// transliterations and abbreviations. Lookups are by exact canonical name;
// the aliases themselves are compared case-folded at match time, never
// pre-normalized here. The registry is read-only after construction, so one
// instance is safe to share across any number of callers.
type AliasRegistry struct {
	aliases map[string][]string
}

// NewAliasRegistry builds a registry from the given table. The table is
// copied; later mutation of the argument has no effect.
func NewAliasRegistry(table map[string][]string) *AliasRegistry {
	aliases := make(map[string][]string, len(table))
	for canonical, list := range table {
		copied := make([]string, len(list))
		copy(copied, list)
		aliases[canonical] = copied
	}
	return &AliasRegistry{aliases: aliases}
}

// AliasesFor returns the known aliases for a canonical brand name. Unknown
// brands get an empty slice, never nil semantics the caller has to special
// case.
func (r *AliasRegistry) AliasesFor(canonical string) []string {
	list, ok := r.aliases[canonical]
	if !ok {
		return []string{}
	}
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// DefaultAliasRegistry returns the curated alias table for the brands the
// directory tracks. Keys must match Brand.Name values exactly. Some chains
// appear under more than one canonical name because different markets use
// different primary branding (e.g. "CoCo Fresh Tea & Juice" in the US vs
// "CoCo都可" in Taiwan); each key carries the same curated alias set.
func DefaultAliasRegistry() *AliasRegistry {
	return NewAliasRegistry(map[string][]string{
		"Kung Fu Tea":               {"KFT", "Kungfu Tea", "功夫茶"},
		"Gong Cha":                  {"GongCha", "貢茶"},
		"Tiger Sugar":               {"老虎堂"},
		"Sharetea":                  {"Share Tea", "歇腳亭"},
		"CoCo Fresh Tea & Juice":    {"CoCo", "Coco Tea", "CoCo都可", "Coco Fresh"},
		"CoCo都可":                    {"CoCo", "都可", "CoCo都可"},
		"Yi Fang Taiwan Fruit Tea":  {"Yifang", "Yi Fang", "一芳"},
		"Yi Fang":                   {"Yi Fang", "一芳", "Yifang", "Yi Fang Taiwan Fruit Tea"},
		"The Alley":                 {"鹿角巷"},
		"TP Tea":                    {"TP TEA", "Tpumps", "茶湯會"},
		"Ten Ren":                   {"Ten Ren's Tea", "Ten Ren Tea", "天仁茗茶", "天仁"},
		"Xing Fu Tang":              {"XFT", "幸福堂", "XingFuTang"},
		"HEYTEA":                    {"Hey Tea", "喜茶"},
		"Chicha San Chen":           {"ChiCha", "ChiCha San Chen", "吃茶三千"},
		"7 Leaves Cafe":             {"7 Leaves", "Seven Leaves"},
		"Sunright Tea Studio":       {"Sunright", "Sunright Tea", "日青良月"},
		"Feng Cha Teahouse":         {"Feng Cha", "奉茶"},
		"Moge Tee":                  {"Moge", "愿茶"},
		"Meet Fresh":                {"鮮芋仙"},
		"Wushiland Boba":            {"OO Tea", "50 Lan", "50嵐", "Wushiland"},
		"50嵐":                       {"50嵐", "50 Lan", "五十嵐"},
		"OMOMO Tea Shoppe":          {"OMOMO", "Omomo"},
		"Molly Tea":                 {"Molly"},
		"3CAT Tea":                  {"3 Cat", "3CAT"},
		"DaYung's Tea":              {"Da Yung", "DaYungs", "大苑子"},
		"Camellia Tea Bar":          {"Camellia Rd", "Camellia"},
		"Asha Tea House":            {"Asha", "Asha Tea"},
		"Teaspoon":                  {"Tea Spoon"},
		"Ume Tea":                   {"Ume"},
		"Wanpo Tea Shop":            {"Wanpo", "萬波"},
		"Vivi Bubble Tea":           {"Vivi"},
		"Machi Machi":               {"麥吉"},
		"Song Tea":                  {"宋茶"},
		"Tea Top":                   {"TeaTop", "Tea-Top"},
		"Happy Lemon":               {"快樂檸檬"},
		"龜記":                        {"Guiji", "GUIJI", "龜記茗品"},
		"清心福全":                      {"清心"},
		"一沐日":                       {"YIMU"},
		"UG樂己":                      {"UG", "樂己"},
		"迷客夏":                       {"Milksha", "MILKSHA"},
		"五桐號":                       {"WooTea", "Woo Tea"},
		"可不可熟成紅茶":                   {"可不可", "KEBUKE", "Kebuke"},
		"LiHO Tea":                  {"LiHO", "里喝", "Li Ho"},
		"KOI Thé":                   {"KOI", "KOI The", "KOI茶"},
		"Each A Cup":                {"Each-A-Cup", "各一杯"},
		"Nayuki":                    {"奈雪", "奈雪的茶", "Naixue"},
		"Chagee":                    {"霸王茶姬", "CHAGEE"},
		"R&B Tea":                   {"R&B", "R&B巡茶", "RB Tea"},
		"Hollin":                    {"賀凜", "HOLLIN"},
		"iTEA":                      {"iTea"},
		"Milksha":                   {"迷客夏", "MILKSHA"},
		"PlayMade":                  {"Play Made", "Playmade"},
		"KEBUKE":                    {"可不可", "Kebuke", "可不可熟成紅茶"},
		"Bober Tea":                 {"Bober", "BOBER"},
		"The Whale Tea":             {"Whale Tea", "大鯨魚"},
	})
}
