package router

import (
	contractx "github.com/agentdesk/agentdesk/agent/contract"
)

// SupportAgent handles client, order, payment, course, and schedule queries
// and can create records through the external mutation tool.
func SupportAgent() Agent {
	return Agent{
		Type:      contractx.AgentTypeSupport,
		Role:      "Support Agent",
		Goal:      "Handle client, order, payment, and course queries; create orders/clients.",
		Backstory: "You're a helpful support agent assisting users with service-related queries.",
		Actions: []string{
			"find_client",
			"get_client_orders",
			"get_order_by_id",
			"get_payment_info",
			"get_pending_payments",
			"get_classes_for_week",
			"get_courses_by_instructor",
			"get_upcoming_classes",
			"create_client",
			"create_order",
			"create_enquiry",
		},
	}
}

// DashboardAgent is read-only and covers the aggregate analytics actions.
func DashboardAgent() Agent {
	return Agent{
		Type: contractx.AgentTypeDashboard,
		Role: "Dashboard Analytics Agent",
		Goal: "Provide comprehensive analytics and metrics for business insights including revenue, client stats, attendance, and enrollment trends.",
		Backstory: "You are a specialized analytics agent that helps business owners understand their operations through data. " +
			"You excel at extracting insights from client data, revenue patterns, attendance records, and enrollment trends. " +
			"You present data in a clear, actionable format that helps in making business decisions.",
		Actions: []string{
			"calculate_revenue",
			"get_client_stats",
			"get_attendance_stats",
			"get_top_courses",
			"get_enrollment_trends",
		},
	}
}

// DefaultAgents returns the agents every deployment registers.
func DefaultAgents() []Agent {
	return []Agent{SupportAgent(), DashboardAgent()}
}
