package importer

// GridPoint is one center of a circular search area. Adjacent points overlap
// so a sweep over the full grid covers the region without gaps.
type GridPoint struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// BrandSeed describes a brand to import shops for. Seeds are resolved to
// database rows by name before the grid sweep starts.
type BrandSeed struct {
	Name          string
	NameZH        string
	Description   string
	OriginCountry string
}

// TaiwanBrands returns the priority Taiwan chains to import
func TaiwanBrands() []BrandSeed {
	return []BrandSeed{
		{Name: "清心福全", NameZH: "清心福全", Description: "Largest chain by store count (900+)", OriginCountry: "TW"},
		{Name: "50嵐", NameZH: "50嵐", Description: "Iconic Taiwan brand, #2 by stores", OriginCountry: "TW"},
		{Name: "CoCo都可", NameZH: "CoCo都可", Description: "International chain", OriginCountry: "TW"},
		{Name: "麻古茶坊", NameZH: "麻古茶坊", Description: "Fruit tea specialty", OriginCountry: "TW"},
		{Name: "迷客夏", NameZH: "迷客夏", Description: "Fresh milk tea specialist", OriginCountry: "TW"},
		{Name: "大苑子", NameZH: "大苑子", Description: "Fresh fruit juice and tea", OriginCountry: "TW"},
		{Name: "茶的魔手", NameZH: "茶的魔手", Description: "South Taiwan champion", OriginCountry: "TW"},
		{Name: "得正", NameZH: "得正", Description: "Oolong tea specialist", OriginCountry: "TW"},
		{Name: "可不可熟成紅茶", NameZH: "可不可熟成紅茶", Description: "Premium aged black tea", OriginCountry: "TW"},
		{Name: "茶湯會", NameZH: "茶湯會", Description: "Part of 六角集團", OriginCountry: "TW"},
		{Name: "一沐日", NameZH: "一沐日", Description: "Rising Gen-Z favorite", OriginCountry: "TW"},
		{Name: "龜記", NameZH: "龜記", Description: "Trendy specialty drinks", OriginCountry: "TW"},
		{Name: "八曜和茶", NameZH: "八曜和茶", Description: "High social buzz", OriginCountry: "TW"},
		{Name: "五桐號", NameZH: "五桐號", Description: "Almond jelly specialty", OriginCountry: "TW"},
		{Name: "UG樂己", NameZH: "UG樂己", Description: "Popular chain brand", OriginCountry: "TW"},
	}
}

// TaiwanGrid returns grid points covering Taiwan. Each point covers a ~25km
// radius; Taiwan spans roughly 22°N to 25.3°N and 120°E to 122°E.
func TaiwanGrid() []GridPoint {
	return []GridPoint{
		// North (Taipei, New Taipei, Keelung, Yilan)
		{Name: "Taipei City", Latitude: 25.0330, Longitude: 121.5654},
		{Name: "Taipei North", Latitude: 25.1200, Longitude: 121.5200},
		{Name: "New Taipei West", Latitude: 25.0100, Longitude: 121.4300},
		{Name: "New Taipei East", Latitude: 25.0000, Longitude: 121.7500},
		{Name: "Keelung", Latitude: 25.1276, Longitude: 121.7392},
		{Name: "Yilan", Latitude: 24.7570, Longitude: 121.7533},
		// Northwest (Taoyuan, Hsinchu, Miaoli)
		{Name: "Taoyuan City", Latitude: 24.9936, Longitude: 121.3010},
		{Name: "Taoyuan Airport", Latitude: 25.0777, Longitude: 121.2329},
		{Name: "Zhongli", Latitude: 24.9537, Longitude: 121.2249},
		{Name: "Hsinchu City", Latitude: 24.8066, Longitude: 120.9686},
		{Name: "Hsinchu County", Latitude: 24.8387, Longitude: 121.0178},
		{Name: "Miaoli", Latitude: 24.5602, Longitude: 120.8214},
		// Central (Taichung, Changhua, Nantou)
		{Name: "Taichung City", Latitude: 24.1477, Longitude: 120.6736},
		{Name: "Taichung North", Latitude: 24.2500, Longitude: 120.7000},
		{Name: "Taichung South", Latitude: 24.0500, Longitude: 120.6500},
		{Name: "Changhua City", Latitude: 24.0734, Longitude: 120.5134},
		{Name: "Changhua Coast", Latitude: 24.0500, Longitude: 120.4000},
		{Name: "Nantou", Latitude: 23.9158, Longitude: 120.6873},
		{Name: "Puli", Latitude: 23.9659, Longitude: 120.9692},
		// Southwest (Yunlin, Chiayi, Tainan)
		{Name: "Yunlin", Latitude: 23.7092, Longitude: 120.4313},
		{Name: "Chiayi City", Latitude: 23.4801, Longitude: 120.4491},
		{Name: "Chiayi County", Latitude: 23.4518, Longitude: 120.2555},
		{Name: "Tainan North", Latitude: 23.1500, Longitude: 120.2000},
		{Name: "Tainan City", Latitude: 22.9998, Longitude: 120.2270},
		{Name: "Tainan South", Latitude: 22.9000, Longitude: 120.2000},
		// South (Kaohsiung, Pingtung)
		{Name: "Kaohsiung City", Latitude: 22.6273, Longitude: 120.3014},
		{Name: "Kaohsiung North", Latitude: 22.7500, Longitude: 120.3500},
		{Name: "Kaohsiung South", Latitude: 22.5000, Longitude: 120.4000},
		{Name: "Fengshan", Latitude: 22.6271, Longitude: 120.3568},
		{Name: "Pingtung City", Latitude: 22.6762, Longitude: 120.4929},
		{Name: "Pingtung South", Latitude: 22.4500, Longitude: 120.5500},
		// East (Hualien, Taitung)
		{Name: "Hualien City", Latitude: 23.9871, Longitude: 121.6015},
		{Name: "Hualien South", Latitude: 23.7500, Longitude: 121.4500},
		{Name: "Taitung City", Latitude: 22.7583, Longitude: 121.1444},
		{Name: "Taitung North", Latitude: 23.1000, Longitude: 121.2000},
		// Islands (Penghu only, Kinmen and Matsu are out of range)
		{Name: "Penghu", Latitude: 23.5711, Longitude: 119.5793},
	}
}

// TaiwanCity estimates the city for Taiwan coordinates. Coarse lat/lng ranges
// are good enough for filtering; precise reverse geocoding is not worth an
// extra API call per shop.
func TaiwanCity(lat, lng float64) string {
	switch {
	case lat > 24.9 && lng > 121.4:
		return "Taipei"
	case lat > 24.9:
		return "Taoyuan"
	case lat > 24.0 && lat < 24.5:
		return "Taichung"
	case lat > 22.9 && lat < 23.3:
		return "Tainan"
	case lat < 22.9:
		return "Kaohsiung"
	case lng > 121.5:
		return "Hualien"
	default:
		return "Taiwan"
	}
}
