package workflowroutehandler

import (
	"estate-tracker-backend/models"
)

// маршруты, которые действуют пока администратор не настроил свои
var defaultRoutes = map[models.RequestType]ResolvedRoute{
	models.TechnicalSectionType: {
		RequestType: string(models.TechnicalSectionType),
		Label:       "طلب القسم الفني",
		Sequence:    []string{"pr@estate.local", "technical@estate.local"},
		CcList:      []string{},
		NotifyRoles: []string{string(models.PRManagerRole), string(models.TechnicalRole)},
	},
	models.DeedClearanceType: {
		RequestType: string(models.DeedClearanceType),
		Label:       "طلب إفراغ صك",
		Sequence:    []string{"cx@estate.local", "pr@estate.local", "admin@estate.local"},
		CcList:      []string{},
		NotifyRoles: []string{string(models.ConveyanceRole), string(models.PRManagerRole)},
	},
	models.MeterTransferType: {
		RequestType: string(models.MeterTransferType),
		Label:       "طلب نقل عداد",
		Sequence:    []string{"cx@estate.local", "technical@estate.local"},
		CcList:      []string{"pr@estate.local"},
		NotifyRoles: []string{string(models.ConveyanceRole), string(models.TechnicalRole)},
	},
}

func defaultRoute(requestType models.RequestType) (ResolvedRoute, bool) {
	route, ok := defaultRoutes[requestType]
	if !ok {
		return ResolvedRoute{}, false
	}
	route.Sequence = append([]string{}, route.Sequence...)
	route.CcList = append([]string{}, route.CcList...)
	route.NotifyRoles = append([]string{}, route.NotifyRoles...)
	route.Source = SourceDefault
	return route, true
}

// DefaultRouteTypes типы заявок со встроенным маршрутом
func DefaultRouteTypes() []models.RequestType {
	return []models.RequestType{models.TechnicalSectionType, models.DeedClearanceType, models.MeterTransferType}
}
