package shopify

// Payload shapes of the Admin GraphQL operations used by the sync.

type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type ProductVariant struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Price           string           `json:"price"`
	SKU             string           `json:"sku"`
	SelectedOptions []SelectedOption `json:"selectedOptions"`
	InventoryItem   *struct {
		ID string `json:"id"`
	} `json:"inventoryItem"`
}

func (v ProductVariant) InventoryItemID() string {
	if v.InventoryItem == nil {
		return ""
	}
	return v.InventoryItem.ID
}

// OptionValue returns the value of the named option, or "".
func (v ProductVariant) OptionValue(name string) string {
	for _, o := range v.SelectedOptions {
		if o.Name == name {
			return o.Value
		}
	}
	return ""
}

type variantConnection struct {
	Nodes []ProductVariant `json:"nodes"`
}

type Product struct {
	ID       string             `json:"id"`
	Handle   string             `json:"handle"`
	Title    string             `json:"title"`
	Variants *variantConnection `json:"variants"`
}

type productCreatePayload struct {
	ProductCreate struct {
		Product    *Product    `json:"product"`
		UserErrors []UserError `json:"userErrors"`
	} `json:"productCreate"`
}

type productVariantsPayload struct {
	Product *struct {
		Variants variantConnection `json:"variants"`
	} `json:"product"`
}

type variantsBulkCreatePayload struct {
	ProductVariantsBulkCreate struct {
		ProductVariants []ProductVariant `json:"productVariants"`
		UserErrors      []UserError      `json:"userErrors"`
	} `json:"productVariantsBulkCreate"`
}

type variantsBulkUpdatePayload struct {
	ProductVariantsBulkUpdate struct {
		ProductVariants []ProductVariant `json:"productVariants"`
		UserErrors      []UserError      `json:"userErrors"`
	} `json:"productVariantsBulkUpdate"`
}

type variantsBulkDeletePayload struct {
	ProductVariantsBulkDelete struct {
		UserErrors []UserError `json:"userErrors"`
	} `json:"productVariantsBulkDelete"`
}

type Location struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	IsActive             bool   `json:"isActive"`
	FulfillsOnlineOrders bool   `json:"fulfillsOnlineOrders"`
	FulfillmentService   *struct {
		ID string `json:"id"`
	} `json:"fulfillmentService"`
}

type locationsPayload struct {
	Locations struct {
		Nodes []Location `json:"nodes"`
	} `json:"locations"`
}

type inventoryActivatePayload struct {
	InventoryActivate struct {
		UserErrors []UserError `json:"userErrors"`
	} `json:"inventoryActivate"`
}

type inventorySetOnHandPayload struct {
	InventorySetOnHandQuantities struct {
		UserErrors []UserError `json:"userErrors"`
	} `json:"inventorySetOnHandQuantities"`
}

type productCreateMediaPayload struct {
	ProductCreateMedia struct {
		MediaUserErrors []UserError `json:"mediaUserErrors"`
	} `json:"productCreateMedia"`
}

type Publication struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type publicationsPayload struct {
	Publications struct {
		Nodes []Publication `json:"nodes"`
	} `json:"publications"`
}

type publishPayload struct {
	PublishablePublish *struct {
		UserErrors []UserError `json:"userErrors"`
	} `json:"publishablePublish"`
	PublishablePublishToCurrentChannel *struct {
		UserErrors []UserError `json:"userErrors"`
	} `json:"publishablePublishToCurrentChannel"`
}

func (p publishPayload) userErrors() []UserError {
	switch {
	case p.PublishablePublish != nil:
		return p.PublishablePublish.UserErrors
	case p.PublishablePublishToCurrentChannel != nil:
		return p.PublishablePublishToCurrentChannel.UserErrors
	}
	return nil
}
