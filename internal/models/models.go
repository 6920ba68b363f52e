package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ==========================================
// CATALOG
// ==========================================

type ItemType string

const (
	ItemTypeBase   ItemType = "Base"
	ItemTypeSauce  ItemType = "Sauce"
	ItemTypeMeat   ItemType = "Meat Topping"
	ItemTypeVeggie ItemType = "Veggie Topping"
)

// ItemTypes lists the accepted catalog categories in display order.
var ItemTypes = []ItemType{ItemTypeBase, ItemTypeSauce, ItemTypeMeat, ItemTypeVeggie}

type Ingredient struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"size:500" json:"description,omitempty"`
	ItemType    ItemType  `gorm:"type:varchar(20);not null;index" json:"itemType"`
	Price       float64   `gorm:"not null" json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// ==========================================
// BUILDER
// ==========================================

// Selection is a catalog item copied by value into a builder, so later
// catalog edits or deletions never change a stored pizza.
type Selection struct {
	IngredientID *uuid.UUID `json:"id,omitempty"`
	Name         string     `json:"name"`
	ItemType     ItemType   `json:"itemType"`
	Price        float64    `json:"price"`
	Amount       int        `json:"amount,omitempty"`
}

type ImageMeta struct {
	Filename string `json:"filename"`
	Mimetype string `json:"mimetype"`
	Size     int64  `json:"size"`
}

type Builder struct {
	ID            uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	PizzaName     string      `gorm:"size:100;not null" json:"pizzaName"`
	Base          []Selection `gorm:"type:text;serializer:json" json:"base"`
	Sauce         *Selection  `gorm:"type:text;serializer:json" json:"sauce,omitempty"`
	MeatTopping   []Selection `gorm:"type:text;serializer:json" json:"meatTopping"`
	VeggieTopping []Selection `gorm:"type:text;serializer:json" json:"veggieTopping"`
	PizzaPrice    float64     `gorm:"not null" json:"pizzaPrice"`
	Image         *ImageMeta  `gorm:"type:text;serializer:json" json:"image,omitempty"`
	IsTemplate    bool        `gorm:"not null;index" json:"isTemplate"`
	CreatedAt     time.Time   `json:"createdAt"`
}

func (b *Builder) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// ==========================================
// ORDERS
// ==========================================

type OrderStatus string

const (
	StatusProcessing OrderStatus = "processing"
	StatusCompleted  OrderStatus = "completed"
	StatusDelivered  OrderStatus = "delivered"
	StatusArchived   OrderStatus = "archived"
	StatusCancelled  OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{StatusProcessing, StatusCompleted, StatusDelivered, StatusArchived, StatusCancelled}

type Address struct {
	Street string `gorm:"size:200" json:"street"`
	City   string `gorm:"size:100" json:"city"`
	State  string `gorm:"size:50" json:"state"`
	Zip    string `gorm:"size:10" json:"zip"`
}

type Order struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	OrderNumber  int64       `gorm:"not null;uniqueIndex" json:"orderNumber"`
	OrderDetails []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"orderDetails"`
	Address      Address     `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	Phone        string      `gorm:"size:20;not null" json:"phone"`
	FirstName    string      `gorm:"size:50;not null" json:"firstName"`
	LastName     string      `gorm:"size:50;not null" json:"lastName"`
	Email        string      `gorm:"size:254" json:"email,omitempty"`
	OrderTotal   float64     `gorm:"not null" json:"orderTotal"`
	Status       OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	IsArchived   bool        `gorm:"not null;index" json:"isArchived"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem is a priced pizza snapshot inside an order.
type OrderItem struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"-"`
	OrderID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"-"`
	Position   int        `gorm:"not null" json:"-"`
	BuilderID  *uuid.UUID `gorm:"type:uuid" json:"builderId,omitempty"`
	PizzaName  string     `gorm:"size:100;not null" json:"pizzaName"`
	PizzaPrice float64    `gorm:"not null" json:"pizzaPrice"`
	Quantity   int        `gorm:"not null" json:"quantity"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// ==========================================
// MESSAGES
// ==========================================

type Message struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email   string    `gorm:"size:254;not null" json:"email"`
	Subject string    `gorm:"size:200;not null" json:"subject"`
	Message string    `gorm:"size:2000;not null" json:"message"`
	Date    time.Time `gorm:"not null;index" json:"date"`
	IsRead  bool      `gorm:"not null" json:"isRead"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Date.IsZero() {
		m.Date = time.Now()
	}
	return nil
}

// ==========================================
// AUTH & USERS
// ==========================================

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserDisabled UserStatus = "disabled"
)

type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string     `gorm:"size:254;not null;uniqueIndex" json:"email"`
	Password  string     `gorm:"column:password_hash;not null" json:"-"`
	FirstName string     `gorm:"size:50" json:"firstName"`
	LastName  string     `gorm:"size:50" json:"lastName"`
	Role      Role       `gorm:"type:varchar(20);not null" json:"role"`
	Status    UserStatus `gorm:"type:varchar(20);not null" json:"status"`

	// Issued tokens; a bearer token is only honoured while it is listed here.
	Tokens []UserToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type UserToken struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Token     string    `gorm:"size:512;not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Role  Role   `json:"role"`
}
