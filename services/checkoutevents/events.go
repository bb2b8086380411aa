package checkoutevents

const (
	TopicName                  = "checkout"
	checkoutSessionCreatedName = TopicName + ".sessionCreated"
	checkoutCompletedName      = TopicName + ".completed"
)

type CheckoutSessionCreated struct {
	CheckoutUID  string
	ProviderName string
	SessionID    string
	Mode         string
	PriceID      string
	Quantity     int64
}

func (e CheckoutSessionCreated) GetEventTypeName() string {
	return checkoutSessionCreatedName
}

func (e CheckoutSessionCreated) GetAggregateName() string {
	return e.CheckoutUID
}

type CheckoutCompleted struct {
	CheckoutUID   string
	ProviderName  string
	SessionID     string
	Status        string
	PaymentStatus string
	CustomerEmail string
}

func (e CheckoutCompleted) GetEventTypeName() string {
	return checkoutCompletedName
}

func (e CheckoutCompleted) GetAggregateName() string {
	return e.CheckoutUID
}
