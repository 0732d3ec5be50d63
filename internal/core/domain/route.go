package domain

// Route is a dashboard location a screen or Gate operation navigates to.
type Route string

const (
	RouteLogin                Route = "/login"
	RouteDashboard            Route = "/dashboard"
	RouteActivePaymentMethods Route = "/dashboard/payment-methods/active"
	RouteAdminPaymentMethods  Route = "/dashboard/admin/payment-methods"
	RouteAdminStatistics      Route = "/dashboard/admin/statistics"
	RouteProfile              Route = "/dashboard/profile"
)

func (r Route) String() string { return string(r) }
