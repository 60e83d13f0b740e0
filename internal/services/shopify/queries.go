package shopify

const variantFields = `
      id
      title
      price
      sku
      selectedOptions { name value }
      inventoryItem { id }`

const productCreateMutation = `
mutation productCreate($product: ProductCreateInput!) {
  productCreate(product: $product) {
    product {
      id
      handle
      title
      variants(first: 10) {
        nodes {` + variantFields + `
        }
      }
    }
    userErrors { field message }
  }
}`

const productCreateLegacyMutation = `
mutation productCreate($input: ProductInput!) {
  productCreate(input: $input) {
    product {
      id
      handle
      title
    }
    userErrors { field message }
  }
}`

const productVariantsQuery = `
query productVariants($id: ID!) {
  product(id: $id) {
    variants(first: 10) {
      nodes {` + variantFields + `
      }
    }
  }
}`

const variantsBulkCreateMutation = `
mutation productVariantsBulkCreate($productId: ID!, $variants: [ProductVariantsBulkInput!]!, $strategy: ProductVariantsBulkCreateStrategy) {
  productVariantsBulkCreate(productId: $productId, variants: $variants, strategy: $strategy) {
    productVariants {` + variantFields + `
    }
    userErrors { field message }
  }
}`

const variantsBulkUpdateMutation = `
mutation productVariantsBulkUpdate($productId: ID!, $variants: [ProductVariantsBulkInput!]!) {
  productVariantsBulkUpdate(productId: $productId, variants: $variants) {
    productVariants {` + variantFields + `
    }
    userErrors { field message }
  }
}`

const variantsBulkDeleteMutation = `
mutation productVariantsBulkDelete($productId: ID!, $variantsIds: [ID!]!) {
  productVariantsBulkDelete(productId: $productId, variantsIds: $variantsIds) {
    userErrors { field message }
  }
}`

const locationsQuery = `
query locations {
  locations(first: 20) {
    nodes {
      id
      name
      isActive
      fulfillsOnlineOrders
      fulfillmentService { id }
    }
  }
}`

const inventoryActivateMutation = `
mutation inventoryActivate($inventoryItemId: ID!, $locationId: ID!) {
  inventoryActivate(inventoryItemId: $inventoryItemId, locationId: $locationId) {
    inventoryLevel { id }
    userErrors { field message }
  }
}`

const inventorySetOnHandMutation = `
mutation inventorySetOnHandQuantities($input: InventorySetOnHandQuantitiesInput!) {
  inventorySetOnHandQuantities(input: $input) {
    userErrors { field message }
  }
}`

const productCreateMediaMutation = `
mutation productCreateMedia($productId: ID!, $media: [CreateMediaInput!]!) {
  productCreateMedia(productId: $productId, media: $media) {
    media { alt mediaContentType status }
    mediaUserErrors { field message }
  }
}`

const publicationsQuery = `
query publications {
  publications(first: 20) {
    nodes { id name }
  }
}`

const publishMutation = `
mutation publishablePublish($id: ID!, $input: [PublicationInput!]!) {
  publishablePublish(id: $id, input: $input) {
    userErrors { field message }
  }
}`

const publishToCurrentChannelMutation = `
mutation publishablePublishToCurrentChannel($id: ID!) {
  publishablePublishToCurrentChannel(id: $id) {
    userErrors { field message }
  }
}`
