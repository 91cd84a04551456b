package main

// transfer is the payload recorded by the demo blocks.
type transfer struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Quantity  uint64 `json:"quantity"`
}

type demoBlock struct {
	index     uint64
	timeStamp string
	transfer  transfer
}

func demoTransfers() []demoBlock {
	return []demoBlock{
		{
			index:     1,
			timeStamp: "24/05/2022",
			transfer:  transfer{Sender: "User1", Recipient: "User2", Quantity: 50},
		},
		{
			index:     2,
			timeStamp: "24/05/2022",
			transfer:  transfer{Sender: "User3", Recipient: "User4", Quantity: 30},
		},
	}
}
