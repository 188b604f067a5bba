package services

// Services defined in this package:
// - EnrollmentService: enrollment lifecycle (enroll, cancel, confirm) and listings
// - WorkshopService: read-only workshop catalog
// - GroupService: read-only group/session availability
// - AsyncNotifier: best-effort enrollment event dispatch (NotificationSink)
