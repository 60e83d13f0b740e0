package i18n

var messages = map[Lang]map[string]string{
	English: {
		"pageTitle":               "EZProduct - AI Product Generator",
		"pageSubtitle":            "Generate complete product listings with AI and sync to your store",
		"switchLanguage":          "中文",
		"sessionRefreshedTitle":   "Session Refreshed",
		"sessionRefreshedMessage": "Your session token has been refreshed. Please click the button again to generate your product.",
		"errorTitle":              "Error",
		"successTitle":            "Success!",
		"successMessage":          "Product generated and synced successfully!",
		"viewProduct":             "View Product",
		"formTitle":               "Generate New Product",
		"keywordsLabel":           "Product Keywords",
		"keywordsPlaceholder":     "e.g., Ceramic Coffee Mug, Yoga Mat, Pet Collar",
		"keywordsHelp":            "Enter keywords describing your product. AI will generate title, description, variants, and SEO metadata.",
		"keywordsRequired":        "Please enter product keywords",
		"imageUrlLabel":           "Product Image URL (Optional)",
		"imageUrlPlaceholder":     "https://example.com/product-image.jpg",
		"imageUrlHelp":            "Optional: Provide an image URL for AI to analyze and incorporate into the description.",
		"sizeOptionsLabel":        "Size Options (Optional)",
		"sizeOptionsPlaceholder":  "e.g., S, M, L, XL  or  Small, Medium, Large",
		"sizeOptionsHelp":         "Optional: Enter size options separated by commas. If left empty, AI will generate appropriate sizes based on product type.",
		"brandNameLabel":          "Brand Name (Optional)",
		"brandNamePlaceholder":    "e.g., Your Brand Name",
		"brandNameHelp":           "Optional: Enter your brand name to be naturally incorporated into the title and description.",
		"productNotesLabel":       "Additional Product Info (Optional)",
		"productNotesPlaceholder": "e.g., Handmade, Exclusive Design, Limited Edition...",
		"productNotesHelp":        "Optional: Add extra information about the product such as materials, craftsmanship, features, etc.",
		"submitButton":            "Generate & Sync Product",
		"howItWorksTitle":         "How It Works",
		"step1":                   "Enter keywords describing your product.",
		"step2":                   "Optionally add an image URL, sizes, brand name and notes.",
		"step3":                   "AI writes the title, description, size variants, pricing, SKUs, tags and SEO metadata.",
		"step4":                   "The product is created in your Shopify store and published to the Online Store.",
		"historyTitle":            "Recent Generations",
		"historyEmpty":            "No products generated yet.",
		"statusSynced":            "Synced",
		"statusFailed":            "Failed",
		"batchTitle":              "Batch Upload",
		"batchHelp":               "Upload a CSV file with one product per row. Separate sizes with semicolons.",
		"batchTemplate":           "Download template",
		"batchSubmit":             "Upload & Generate",
		"batchNoFile":             "Please choose a CSV file",
		"loginTitle":              "Log in",
		"loginShopLabel":          "Shop domain",
		"loginSubmit":             "Log in",
		"loginInvalidShop":        "Please enter a valid myshopify.com domain",
		"privacyTitle":            "Privacy Policy",
		"historyProduct":          "Product",
		"historyStatus":           "Status",
		"historyCreated":          "Created",
		"privacyIntro":            "EZProduct generates product listings for your Shopify store.",
		"privacyData":             "We store your shop domain, access token and a history of the products you generate. We do not access customer or order data.",
		"privacyAI":               "Keywords, optional image URLs and notes you enter are sent to Google Gemini to write the listing.",
		"privacyDeletion":         "Uninstalling the app deletes your credentials. History is erased when Shopify sends a shop redaction request.",
	},
	Chinese: {
		"pageTitle":               "EZProduct - AI 产品生成器",
		"pageSubtitle":            "使用 AI 生成完整的产品列表并同步到您的商店",
		"switchLanguage":          "English",
		"sessionRefreshedTitle":   "会话已刷新",
		"sessionRefreshedMessage": "您的会话令牌已刷新。请重新点击按钮生成产品。",
		"errorTitle":              "错误",
		"successTitle":            "成功！",
		"successMessage":          "产品已成功生成并同步！",
		"viewProduct":             "查看产品",
		"formTitle":               "生成新产品",
		"keywordsLabel":           "产品关键词",
		"keywordsPlaceholder":     "例如：陶瓷咖啡杯、瑜伽垫、宠物项圈",
		"keywordsHelp":            "输入描述产品的关键词。AI 将生成标题、描述、变体和 SEO 元数据。",
		"keywordsRequired":        "请输入产品关键词",
		"imageUrlLabel":           "产品图片链接（可选）",
		"imageUrlPlaceholder":     "https://example.com/product-image.jpg",
		"imageUrlHelp":            "可选：提供图片链接，AI 会分析图片并融入产品描述中。",
		"sizeOptionsLabel":        "尺寸选项（可选）",
		"sizeOptionsPlaceholder":  "例如：S, M, L, XL  或  小号, 中号, 大号",
		"sizeOptionsHelp":         "可选：输入产品的尺寸选项，用逗号分隔。如不填写，AI 会根据产品类型自动生成合适的尺寸。",
		"brandNameLabel":          "品牌名称（可选）",
		"brandNamePlaceholder":    "例如：您的品牌名称",
		"brandNameHelp":           "可选：输入品牌名称，会自然地融入标题和描述中。",
		"productNotesLabel":       "产品补充说明（可选）",
		"productNotesPlaceholder": "例如：手工制作，独家设计，限量版...",
		"productNotesHelp":        "可选：添加关于产品的额外信息，如材质、工艺、特色等，AI 会融入产品描述。",
		"submitButton":            "生成并同步产品",
		"howItWorksTitle":         "使用说明",
		"step1":                   "输入描述产品的关键词。",
		"step2":                   "可选填写图片链接、尺寸、品牌名称和补充说明。",
		"step3":                   "AI 生成标题、描述、尺寸变体、定价、SKU、标签和 SEO 元数据。",
		"step4":                   "产品自动创建到你的 Shopify 店铺并发布到在线商店。",
		"historyTitle":            "最近生成",
		"historyEmpty":            "还没有生成任何产品。",
		"statusSynced":            "已同步",
		"statusFailed":            "失败",
		"batchTitle":              "批量上传",
		"batchHelp":               "上传 CSV 文件，每行一个产品。尺寸之间用分号分隔。",
		"batchTemplate":           "下载模板",
		"batchSubmit":             "上传并生成",
		"batchNoFile":             "请选择 CSV 文件",
		"loginTitle":              "登录",
		"loginShopLabel":          "店铺域名",
		"loginSubmit":             "登录",
		"loginInvalidShop":        "请输入有效的 myshopify.com 域名",
		"privacyTitle":            "隐私政策",
		"historyProduct":          "产品",
		"historyStatus":           "状态",
		"historyCreated":          "创建时间",
		"privacyIntro":            "EZProduct 为您的 Shopify 店铺生成产品信息。",
		"privacyData":             "我们会保存您的店铺域名、访问令牌以及您生成的产品记录。我们不会访问客户或订单数据。",
		"privacyAI":               "您输入的关键词、可选的图片链接和补充说明会发送给 Google Gemini 用于撰写产品信息。",
		"privacyDeletion":         "卸载应用会删除您的凭据。Shopify 发送店铺数据删除请求时，历史记录将被清除。",
	},
}
