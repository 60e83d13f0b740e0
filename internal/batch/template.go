package batch

import "ezproduct/internal/i18n"

const templateHeader = "keywords (关键词) [Required / 必填],imageUrl (图片链接) [Optional / 可选],sizeOptions (尺寸选项) [Optional / 可选],brandName (品牌名称) [Optional / 可选],productNotes (产品说明) [Optional / 可选]\n"

const templateEN = templateHeader +
	"Yoga Mat,,S;M;L,YogaBrand,Premium non-slip surface\n" +
	"Pet Collar,https://example.com/collar.jpg,Small;Medium;Large,PetPals,Adjustable leather collar\n" +
	"Coffee Mug,,Standard,MugLife,350ml capacity\n"

const templateZH = templateHeader +
	"瑜伽垫,,S;M;L,瑜伽品牌,高级防滑表面\n" +
	"宠物项圈,https://example.com/collar.jpg,小号;中号;大号,宠物伙伴,可调节皮质项圈\n" +
	"咖啡杯,,标准款,杯生活,350ml容量\n"

// Template returns the downloadable example file.
func Template(lang i18n.Lang) string {
	if lang == i18n.Chinese {
		return templateZH
	}
	return templateEN
}

// TemplateFilename is the download name for Template(lang).
func TemplateFilename(lang i18n.Lang) string {
	return "ezproduct-template-" + string(lang) + ".csv"
}
