package validation

import (
	"fmt"
	"strings"
)

// Schema names accepted by Gate.Check.
const (
	SchemaOrder        = "order"
	SchemaIngredient   = "ingredient"
	SchemaMessage      = "message"
	SchemaLogin        = "login"
	SchemaUser         = "user"
	SchemaPizzaBuilder = "pizzaBuilder"
	SchemaObjectID     = "objectId"
)

func builtinSchemas(opts Options) []Schema {
	return []Schema{
		orderSchema(),
		ingredientSchema(),
		messageSchema(),
		loginSchema(),
		userSchema(),
		pizzaBuilderSchema(opts.MaxToppingAmount),
		{
			Name: SchemaObjectID,
			Rules: []Rule{
				{Path: "id", Kind: String, Tag: "objectid", Message: "Invalid ID format"},
			},
		},
	}
}

func orderSchema() Schema {
	return Schema{
		Name: SchemaOrder,
		Rules: []Rule{
			{Path: "orderDetails", Kind: Array, Tag: "min=1", Message: "Order must contain at least one item"},
			{Path: "orderDetails.*", Kind: Object, Message: "Order item must be an object"},
			{Path: "orderDetails.*.pizzaName", Kind: String, Tag: "min=1,max=100", Message: "Pizza name must be between 1 and 100 characters"},
			{Path: "orderDetails.*.pizzaPrice", Kind: Number, Tag: "gte=0,lte=1000", Message: "Pizza price must be between 0 and 1000"},
			{Path: "orderDetails.*.quantity", Kind: Integer, Tag: "gte=1,lte=50", Message: "Quantity must be between 1 and 50"},
			{Path: "orderDetails.*.builderId", Kind: String, Tag: "objectid", Optional: true, Message: "Invalid builder ID format"},

			{Path: "address", Kind: Object, Message: "Address is required"},
			{Path: "address.street", Kind: String, Tag: "min=5,max=200", Message: "Street must be between 5 and 200 characters"},
			{Path: "address.city", Kind: String, Tag: "min=2,max=100", Message: "City must be between 2 and 100 characters"},
			{Path: "address.state", Kind: String, Tag: "min=2,max=50", Message: "State must be between 2 and 50 characters"},
			{Path: "address.zip", Kind: String, Tag: "zip", Message: "ZIP code must be in format 12345 or 12345-6789"},

			{Path: "phone", Kind: String, Tag: "min=10,max=20,phone", Message: "Please provide a valid phone number"},
			{Path: "firstName", Kind: String, Tag: "min=1,max=50", Message: "First name must be between 1 and 50 characters"},
			{Path: "lastName", Kind: String, Tag: "min=1,max=50", Message: "Last name must be between 1 and 50 characters"},
			{Path: "email", Kind: String, Tag: "email", Optional: true, Message: "Please provide a valid email"},
			{Path: "orderTotal", Kind: Number, Tag: "gte=0,lte=10000", Optional: true, Message: "Order total must be between 0 and 10000"},
		},
	}
}

func ingredientSchema() Schema {
	return Schema{
		Name: SchemaIngredient,
		Rules: []Rule{
			{Path: "name", Kind: String, Tag: "min=1,max=100", Message: "Name must be between 1 and 100 characters"},
			{Path: "description", Kind: String, Tag: "max=500", Optional: true, Message: "Description cannot exceed 500 characters"},
			{Path: "itemType", Kind: String, Tag: "itemtype", Message: "Item type must be one of: Base, Sauce, Meat Topping, Veggie Topping"},
			{Path: "price", Kind: Number, Tag: "gte=0,lte=100", Message: "Price must be between 0 and 100"},
		},
	}
}

func messageSchema() Schema {
	return Schema{
		Name: SchemaMessage,
		Rules: []Rule{
			{Path: "email", Kind: String, Tag: "email", Message: "Please provide a valid email"},
			{Path: "subject", Kind: String, Tag: "min=1,max=200", Message: "Subject must be between 1 and 200 characters"},
			{Path: "message", Kind: String, Tag: "min=1,max=2000", Message: "Message must be between 1 and 2000 characters"},
		},
	}
}

func loginSchema() Schema {
	return Schema{
		Name: SchemaLogin,
		Rules: []Rule{
			{Path: "email", Kind: String, Tag: "email", Message: "Please provide a valid email"},
			{Path: "password", Kind: String, Message: "Password is required"},
		},
	}
}

func userSchema() Schema {
	return Schema{
		Name: SchemaUser,
		Rules: []Rule{
			{Path: "email", Kind: String, Tag: "email", Message: "Please provide a valid email"},
			{Path: "password", Kind: String, Tag: "min=6,max=128", Message: "Password must be between 6 and 128 characters"},
			{Path: "firstName", Kind: String, Tag: "min=1,max=50", Message: "First name must be between 1 and 50 characters"},
			{Path: "lastName", Kind: String, Tag: "min=1,max=50", Message: "Last name must be between 1 and 50 characters"},
			{Path: "role", Kind: String, Tag: "oneof=admin customer", Optional: true, Message: "Role must be admin or customer"},
			{Path: "status", Kind: String, Tag: "oneof=active disabled", Optional: true, Message: "Status must be active or disabled"},
		},
	}
}

func pizzaBuilderSchema(maxAmount int) Schema {
	rules := []Rule{
		{Path: "pizzaName", Kind: String, Tag: "min=1,max=100", Message: "Pizza name must be between 1 and 100 characters"},
		{Path: "base", Kind: Array, Optional: true, Message: "Base must be a list"},
		{Path: "sauce", Kind: Single, Optional: true, Message: "Only one sauce can be selected"},
		{Path: "meatTopping", Kind: Array, Optional: true, Message: "Meat toppings must be a list"},
		{Path: "veggieTopping", Kind: Array, Optional: true, Message: "Veggie toppings must be a list"},
	}
	rules = append(rules, selectionRules("base.*", 0)...)
	rules = append(rules, selectionRules("sauce", 0)...)
	rules = append(rules, selectionRules("meatTopping.*", maxAmount)...)
	rules = append(rules, selectionRules("veggieTopping.*", maxAmount)...)
	rules = append(rules,
		Rule{Path: "pizzaPrice", Kind: Number, Tag: "gte=0,lte=1000", Optional: true, Message: "Pizza price must be between 0 and 1000"},
		Rule{Path: "isTemplate", Kind: Bool, Optional: true, Message: "isTemplate must be a boolean"},
	)
	return Schema{Name: SchemaPizzaBuilder, Rules: rules}
}

// selectionRules constrains one selected catalog item. maxAmount > 0 adds the
// topping multiplier, defaulting to 1.
func selectionRules(prefix string, maxAmount int) []Rule {
	var rules []Rule
	if strings.HasSuffix(prefix, ".*") {
		rules = append(rules, Rule{Path: prefix, Kind: Object, Message: "Selection must be an object"})
	}
	rules = append(rules, []Rule{
		{Path: prefix + ".id", Kind: String, Tag: "objectid", Optional: true, Message: "Invalid ingredient ID format"},
		{Path: prefix + ".name", Kind: String, Tag: "min=1,max=100", Optional: true, Message: "Name must be between 1 and 100 characters"},
		{Path: prefix + ".itemType", Kind: String, Tag: "itemtype", Optional: true, Message: "Item type must be one of: Base, Sauce, Meat Topping, Veggie Topping"},
		{Path: prefix + ".price", Kind: Number, Tag: "gte=0,lte=100", Optional: true, Message: "Price must be between 0 and 100"},
	}...)
	if maxAmount > 0 {
		rules = append(rules, Rule{
			Path:    prefix + ".amount",
			Kind:    Integer,
			Tag:     fmt.Sprintf("gte=1,lte=%d", maxAmount),
			Default: 1,
			Message: fmt.Sprintf("Topping amount must be between 1 and %d", maxAmount),
		})
	}
	return rules
}
