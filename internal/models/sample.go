package models

import "time"

const CategoryURL = "URL_NOTIFICATION"

// SampleHistory is the fixed data set shown in preview mode, where no cache is
// read or written and the backend is never called.
func SampleHistory() History {
	url := CategoryURL
	return History{
		{
			ID:     "24efe19f-d86d-443f-a208-e8ae21292dfb",
			Topic:  "Server Maintenance",
			Posted: time.Unix(1707061300, 0),
			Payload: Payload{
				Title: "Server Update Complete",
				Body:  "debian-aws-useast2 has successfully been upgraded to kernel 6.2.",
			},
		},
		{
			ID:     "24efe19f-d86d-443f-a608-e8ae21292dfc",
			Topic:  "Parcel Update",
			Posted: time.Unix(1706950300, 0),
			Payload: Payload{
				Title: "Parcel Received",
				Body:  "A parcel is available for pickup at the front desk.",
			},
		},
		{
			ID:       "19efe19f-d86d-443f-a608-e8ae21292dfc",
			Topic:    "Server Status",
			Posted:   time.Unix(1706640100, 0),
			Category: &url,
			Payload: Payload{
				Title: "Server Offline",
				Body:  "debian-aws-useast2 has not been responsive for 5 minutes.",
			},
		},
	}
}
