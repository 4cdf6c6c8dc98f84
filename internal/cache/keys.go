package cache

const (
	KeyHotels       = "hotels"
	KeyUserBookings = "userBookings"
)

func HotelKey(id string) string {
	return "hotels/" + id
}

func UserKey(id string) string {
	return "user/" + id
}
