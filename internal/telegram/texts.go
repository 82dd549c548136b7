package telegram

const (
	textWelcome = "Hi! I sell access to private Telegram channels.\n\n" +
		"Creators: /creator\nSubscribers: /subscriber\nYour active subscriptions: /my"
	textUnknownCommand   = "I don't understand this message. Try /start."
	textCreatorHelp      = "Create a project in the dashboard, then press \"Connect channel\" there and follow the link back to me."
	textSubscriberHelp   = "Open the link the channel owner shared with you to see the plans. Your subscriptions: /my"
	textNoSubscriptions  = "You have no active subscriptions."
	textProjectMissing   = "This channel is not available right now."
	textNoPlans          = "The owner has not published any plans yet."
	textChoosePlan       = "<b>%s</b>\nChoose a plan:"
	textPayPrompt        = "Plan <b>%s</b>: %s %s for %d days.\nTap the button to pay."
	textConnectPrompt    = "Now add me to your channel as an administrator with the \"Invite users\" and \"Ban users\" rights."
	textConnectUnknown   = "I was added to <b>%s</b>, but I don't know which project it belongs to. Open the connect link from your dashboard first."
	textConnectFailed    = "Could not connect <b>%s</b>: %s"
	textConnectBadRights = "I need the \"Invite users\" and \"Ban users\" rights in <b>%s</b>. Please update my permissions."
	textSomethingWrong   = "Something went wrong, please try again later."

	textGranted   = "Your subscription to <b>%s</b> (%s) is active until %s.\nThis invite link works once:"
	textSale      = "New subscriber in <b>%s</b> (%s). Credited: %s %s."
	textExpired   = "Your subscription to <b>%s</b> has expired. Open the channel link again to renew."
	textConnected = "Channel <b>%s</b> is connected. Share this link with subscribers:\n%s"

	buttonJoin      = "Join channel"
	buttonPay       = "Pay %s %s"
	buttonAddBot    = "Add to channel"
	buttonDashboard = "Open dashboard"
	buttonFree      = "free"
)

const dateLayout = "2006-01-02"
