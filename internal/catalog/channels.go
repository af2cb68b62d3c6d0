package catalog

const (
	categoryImageBase = "https://storage.googleapis.com/uspeshnyy-projects/smit/robotnet.ru/tv_chanel/"
	channelLogoBase   = "https://storage.googleapis.com/uspeshnyy-projects/smit/robotnet.ru/chanel/"
)

// ChannelCategory is a TV package category with its channel logos.
type ChannelCategory struct {
	Title string   `json:"title"`
	Image string   `json:"image"`
	Logos []string `json:"logos"`
}

func categoryImage(name string) string { return categoryImageBase + name }

func logos(names ...string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = channelLogoBase + n
	}
	return out
}

var channels = []ChannelCategory{
	{
		Title: "Эфирные",
		Image: categoryImage("efirn.png"),
		Logos: logos(
			"tv_html_555afb9.jpg",
			"tv_html_m31371760.jpg",
			"tv_html_m492bcaa7.jpg",
			"tv_html_m6e86744c.png",
			"tv_html_m63e32a5f.jpg",
			"tv_html_m1c56c9d2.png",
			"tv_html_m73b37c66.jpg",
			"tv_html_40955e9a.png",
			"tv_html_m4da19704.jpg",
			"tv_html_m584e491e.png",
			"tv_html_m108387e1.jpg",
			"tv_html_m164617a0.png",
			"tv_html_m4e158429.png",
			"tv_html_45f0e3aa.png",
			"tv3.png",
			"che.png",
		),
	},
	{
		Title: "Новостные",
		Image: categoryImage("news.png"),
		Logos: logos(
			"tv_html_572badcc.jpg",
			"tv_html_m60a4031e.jpg",
			"rbk.png",
			"tv_html_72def62.png",
			"tv_html_m5e24d247.jpg",
			"tv_html_m68c6a93a.png",
			"tv_html_m61047aa1.png",
			"tv_html_m639fcc85.png",
			"tv_html_238bb385.gif",
			"tv_html_56d3b4b0.jpg",
			"tv_html_m55fb5063.png",
			"tv_html_m12d557dd.png",
			"tv_html_6ecd0f2c.jpg",
			"Cnn.png",
			"tv_html_6bb5309c.png",
			"euronews2.png",
			"tv_html_m5656bfef.png",
		),
	},
	{
		Title: "Развлекательные",
		Image: categoryImage("nostalg.png"),
		Logos: logos(
			"tv_html_m335357d5.png",
			"tv_html_2949f7aa.png",
			"tv_html_m6e645377.png",
			"tv_html_1cdb03df.png",
			"tv_html_3a50994c.png",
			"tv_html_11e5c6c6.png",
			"tv_html_m675c6b09.png",
			"tv_html_4b6f0781.png",
			"otmir.png",
			"tv_html_m46f7221f.png",
			"tv_html_m263f5831.jpg",
			"tv_html_76fcb5ab.png",
			"tv_html_m3e3dc9c3.png",
			"tv_html_m6a4a8840.png",
			"tv_html_1229fd09.png",
		),
	},
	{
		Title: "Детские",
		Image: categoryImage("child.png"),
		Logos: logos(
			"tv_html_2934dfb6.png",
			"tv_html_7131943d.png",
			"tv_html_65564787.png",
			"tv_html_m65b85302.png",
			"tv_html_19419d9f.png",
			"tv_html_791badad.png",
			"tv_html_2e28773c.png",
			"baby.png",
		),
	},
	{
		Title: "Музыкальные",
		Image: categoryImage("music4.png"),
		Logos: logos(
			"tv_html_45d87a4c.png",
			"tv_html_5eabca2d.png",
			"tv_html_m69676a14.png",
			"tv_html_md854412.png",
			"tv_html_m2a94910d.png",
			"tntm.png",
			"tv_html_m7ae3173c.jpg",
			"tv_html_m3f19e076.png",
			"musunion.jpg",
		),
	},
	{
		Title: "Познавательные",
		Image: categoryImage("ng.png"),
		Logos: logos(
			"tv_html_2ec00e2d.png",
			"tv_html_5e9ee64.png",
			"wbc.png",
			"tv_html_6f25f585.png",
			"tv_html_m694ab831.png",
			"travel.png",
			"tcargrad.png",
			"tvoi.png",
			"Nebiset.jpg",
			"unisin.png",
			"rub.png",
			"Nauka2.png",
			"T24.png",
			"kaledoskop.png",
			"shopshow.png",
			"TopShop.png",
			"redline.png",
			"tdk.png",
			"tv_html_228e2e68.png",
			"tv_html_7fad33c1.png",
		),
	},
	{
		Title: "Интернациональные",
		Image: categoryImage("inter.png"),
		Logos: logos(
			"tv_html_m6b0e1417.png",
			"tv_html_m67bcc9a9.png",
			"tv_html_m721c9d0b.png",
			"tv_html_50f57f29.png",
			"tv_html_m4c55599b.png",
			"tv_html_m4b3bafa5.png",
			"tv_html_m305b5d12.png",
			"tv_html_597d6496.png",
			"tv_html_m7a3bd6d2.png",
			"tv_html_140e326b.png",
			"tv_html_4fb02dc3.png",
		),
	},
	{
		Title: "Кино",
		Image: categoryImage("kino.png"),
		Logos: logos(
			"kinomix.png",
			"mankino.png",
			"kinoseri.png",
			"novkino.png",
			"rodn.png",
			"tv_html_4c52c4ba.png",
			"tv_html_7b5b89c7.png",
			"tv_html_m445023ed.png",
			"tv_html_m193f875f.jpg",
			"tv_html_m6cd6fc19.jpg",
			"KINOKOMEDIYA.jpg",
			"tv_html_m4be84b34.png",
			"indkino.png",
			"tv_html_4e0e3c98.png",
		),
	},
	{
		Title: "Спортивные",
		Image: categoryImage("sport.png"),
		Logos: logos(
			"matchn.png",
			"mach.jpg",
			"marena.jpg",
			"machigra.png",
			"boets.jpg",
			"khl.png",
			"rus-extrim.png",
		),
	},
	{
		Title: "Разное",
		Image: categoryImage("sale.png"),
		Logos: logos(
			"tv_html_m43c4ee8b.png",
			"homemag.png",
			"tv_html_2e2d2399.png",
			"tv_html_m18d04fa.png",
			"tv_html_m307e9d6.png",
			"tv_html_7ade422e.jpg",
			"tv_html_m4927c6f9.png",
			"tv_html_70cfc978.png",
			"mama.png",
			"tv_html_m578c9969.png",
			"tv_html_3cca0746.png",
			"sarafan.png",
		),
	},
	{
		Title: "HD Каналы",
		Image: categoryImage("hd1.png"),
		Logos: logos(
			"tv_html_1b76e7c5.png",
			"tv_html_m7d539ab.png",
			"tv_html_68299f12.png",
			"m440c8d33.png",
			"tv_html_m7259184f.png",
			"tv_html_m3e102096.png",
			"tv_html_m55fb5063.png",
			"tv_html_2164ed8.png",
			"wbc.png",
			"kbs.png",
			"lmatchhd.png",
			"tv_html_72def62.png",
			"planetHD.png",
			"rusromHD.png",
			"kinoHD.png",
		),
	},
}

// Channels returns the TV channel categories in display order.
func Channels() []ChannelCategory {
	out := make([]ChannelCategory, len(channels))
	for i, c := range channels {
		c.Logos = append([]string(nil), c.Logos...)
		out[i] = c
	}
	return out
}
