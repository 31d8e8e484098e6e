package model

type DashboardStats struct {
	TotalUsers     int       `json:"totalUsers" yaml:"totalUsers"`
	TotalProducts  int       `json:"totalProducts" yaml:"totalProducts"`
	TotalOrders    int       `json:"totalOrders" yaml:"totalOrders"`
	RecentProducts []Product `json:"recentProducts" yaml:"recentProducts"`
	RecentOrders   []Order   `json:"recentOrders" yaml:"recentOrders"`
}
