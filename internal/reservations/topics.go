package reservations

import "strconv"

const TopicReservationCreated = "reservation.created"

// PartitionKey keeps every event of one office on the same partition, in order.
func PartitionKey(officeID int64) []byte { return []byte(strconv.FormatInt(officeID, 10)) }
